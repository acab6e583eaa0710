// Package msgdb loads a DBC network database and answers frame-id to
// message-name lookups.
package msgdb

import (
	"os"

	"github.com/sirupsen/logrus"
	"go.einride.tech/can/pkg/dbc"
)

// dbcExtendedFlag is the bit DBC sets on raw message ids of extended
// frames. Lookups use the clean 29-bit value, so it is stripped when
// indexing.
const dbcExtendedFlag = 0x80000000

// maxExtendedID is the largest 29-bit identifier. Raw ids still above it
// after stripping the flag are pseudo-messages (e.g. the independent-signal
// container), not frames.
const maxExtendedID = 0x1FFFFFFF

// DB is a read-only index from frame id to message name. A nil *DB is a
// valid receiver and never matches; callers don't need to special-case a
// missing database.
type DB struct {
	names map[uint32]string
}

// Load reads and parses the DBC at path. Any failure is logged and
// reported as a nil database so the caller can proceed without decoding.
func Load(path string, log *logrus.Logger) *DB {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnf("[!] Failed to load DBC: %v", err)
		return nil
	}

	parser := dbc.NewParser(path, data)
	if err := parser.Parse(); err != nil {
		log.Warnf("[!] Failed to load DBC: %v", err)
		return nil
	}

	db := &DB{names: make(map[uint32]string)}
	for _, def := range parser.Defs() {
		msg, ok := def.(*dbc.MessageDef)
		if !ok {
			continue
		}
		id := uint32(msg.MessageID) &^ dbcExtendedFlag
		if id > maxExtendedID {
			continue
		}
		db.names[id] = string(msg.Name)
	}
	log.Infof("[✓] Loaded DBC file: %s", path)
	return db
}

// Name returns the message name defined for id. A miss is not an error;
// the second return is false.
func (d *DB) Name(id uint32) (string, bool) {
	if d == nil {
		return "", false
	}
	name, ok := d.names[id]
	return name, ok
}

// Len reports the number of indexed messages.
func (d *DB) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}
