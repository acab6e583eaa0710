// Package j1939 provides routines for classifying CAN identifiers and
// extracting the J1939 fields embedded in 29-bit extended ids.
package j1939

import "fmt"

// MaxStandardID is the largest 11-bit (standard frame) identifier.
const MaxStandardID = 0x7FF

// Kind describes the width class of a CAN identifier.
type Kind int

const (
	// Standard is an 11-bit identifier.
	Standard Kind = iota
	// Extended is a 29-bit identifier.
	Extended
)

// String returns the label used in reports and CSV export.
func (k Kind) String() string {
	if k == Extended {
		return "Extended (29-bit)"
	}
	return "Standard (11-bit)"
}

// Classify returns the width class of id. Anything above the 11-bit range
// is treated as an extended frame identifier.
func Classify(id uint32) Kind {
	if id > MaxStandardID {
		return Extended
	}
	return Standard
}

// PGN extracts the Parameter Group Number from an extended identifier.
// The second return is false for standard ids, where a PGN is not a
// meaningful concept.
func PGN(id uint32) (uint32, bool) {
	if id <= MaxStandardID {
		return 0, false
	}
	return (id >> 8) & 0x3FFFF, true
}

// FormatPGN renders a PGN as uppercase hex with a 0x prefix.
func FormatPGN(pgn uint32) string {
	return fmt.Sprintf("0x%X", pgn)
}

// Header holds the J1939 fields packed into a 29-bit CAN identifier.
type Header struct {
	// 3-bit
	Priority uint8

	// 18-bit number (17 for PDU1, where the low byte is the target)
	PGN uint32

	// actually 8-bit
	SourceID uint8

	// target address, when relevant (PGNs with PF < 240)
	TargetID uint8
}

// DecodeID returns the header fields extracted from a 29-bit identifier.
func DecodeID(id uint32) Header {
	h := Header{
		SourceID: uint8(id & 0xFF),
		PGN:      (id & 0x3FFFF00) >> 8,
		Priority: uint8((id & 0x1C000000) >> 26),
	}

	pduFormat := uint8((h.PGN & 0xFF00) >> 8)
	if pduFormat < 240 {
		// This is a targeted packet, and the lower PS has the address
		h.TargetID = uint8(h.PGN & 0xFF)
		h.PGN &= 0x3FF00
	}
	return h
}

// EncodeID packs header fields back into a 29-bit identifier. For PDU1
// groups the target address occupies the low byte of the PGN field.
func EncodeID(h Header) uint32 {
	return uint32(h.SourceID) | (h.PGN << 8) | (uint32(h.TargetID) << 8) | (uint32(h.Priority) << 26)
}
