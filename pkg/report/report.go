// Package report assembles identifier records and renders them to the
// terminal and to CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/canlog-io/canid/pkg/j1939"
)

// Namer resolves a frame id to a message name. A miss returns ok=false.
type Namer interface {
	Name(id uint32) (string, bool)
}

// Record is one unique identifier with its derived fields. PGN is the
// rendered form ("0xFEF1") and empty for standard ids, where the concept
// does not apply.
type Record struct {
	ID   uint32
	Kind j1939.Kind
	PGN  string
	Name string
}

// Hex returns the identifier in uppercase hex with a 0x prefix.
func (r Record) Hex() string {
	return fmt.Sprintf("0x%X", r.ID)
}

// Build turns the deduplicated identifier set into records, in ascending
// numeric id order. db may be nil, in which case no record gets a name.
func Build(ids map[uint32]struct{}, db Namer) []Record {
	sorted := maps.Keys(ids)
	slices.Sort(sorted)

	records := make([]Record, 0, len(sorted))
	for _, id := range sorted {
		r := Record{ID: id, Kind: j1939.Classify(id)}
		if pgn, ok := j1939.PGN(id); ok {
			r.PGN = j1939.FormatPGN(pgn)
		}
		if db != nil {
			if name, ok := db.Name(id); ok {
				r.Name = name
			}
		}
		records = append(records, r)
	}
	return records
}

// SortByName stably re-sorts records by message name ascending. Unnamed
// records carry the empty string and therefore sort first; ties keep their
// numeric id order.
func SortByName(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Head writes the summary head line for a scan of path that found n unique
// identifiers.
func Head(w io.Writer, path string, n int) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "\nUnique CAN IDs in: %s (%d total)\n\n", path, n)
}

// Render writes one line per record. With j1939 details enabled, extended
// ids also show the decoded priority and source address.
func Render(w io.Writer, records []Record, j1939Details bool) {
	for _, r := range records {
		line := fmt.Sprintf("  %s  (%s)", r.Hex(), r.Kind)
		if r.Name != "" {
			line += fmt.Sprintf(" → %s", r.Name)
		}
		if r.PGN != "" {
			line += fmt.Sprintf(" [PGN %s]", r.PGN)
		}
		if j1939Details && r.Kind == j1939.Extended {
			h := j1939.DecodeID(r.ID)
			line += fmt.Sprintf(" {prio %d, src 0x%02X}", h.Priority, h.SourceID)
		}
		fmt.Fprintln(w, line)
	}
}

// csvHeader is the fixed export column order.
var csvHeader = []string{"CAN_ID (Hex)", "CAN_ID (Dec)", "Type", "PGN", "Message Name"}

// WriteCSV exports records to path, one row per record in their current
// order, under the fixed header.
func WriteCSV(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating CSV file")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, r := range records {
		row := []string{r.Hex(), strconv.FormatUint(uint64(r.ID), 10), r.Kind.String(), r.PGN, r.Name}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flushing CSV")
}

// DeriveCSVPath builds the default export filename from the input file's
// base name: foo.mf4 becomes foo_can_ids.csv.
func DeriveCSVPath(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_can_ids.csv"
}
