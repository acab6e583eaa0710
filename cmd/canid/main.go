/*
Canid lists the unique CAN identifiers recorded in an MF4 measurement file.

Each identifier is classified as standard (11-bit) or extended (29-bit);
extended identifiers get their J1939 PGN extracted. With a DBC database the
identifiers are decoded to message names. The summary prints to the terminal
and can be exported to CSV.

The flags are:

	-d/--dbc specifies an optional DBC file for message-name decoding
	--csv enables CSV export, with an optional output path
	--sort orders the output by "id" (default) or "name"
	--j1939 additionally decodes priority/source from extended ids
	-v enables debug logging

Invoked with no arguments at all, canid prints its manual and exits.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/canlog-io/canid/pkg/mdfscan"
	"github.com/canlog-io/canid/pkg/msgdb"
	"github.com/canlog-io/canid/pkg/report"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	if len(os.Args) == 1 {
		printManual(os.Stdout)
		return
	}

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "canid: %v\n%s\n", err, usageLine)
		exitCode = 2
		return
	}

	log := logrus.New()
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	exitCode = run(opts, log, os.Stdout)
}

// run executes the pipeline and returns the process exit code. All
// failures below this point are converted to user-facing messages; nothing
// escalates to a crash.
func run(opts options, log *logrus.Logger, out io.Writer) int {
	scanner := mdfscan.NewScanner(log, true)
	ids, err := scanner.ScanFile(opts.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[!] Error reading MF4 file: %v\n", err)
		return 1
	}

	if len(ids) == 0 {
		fmt.Fprintln(out, "No CAN IDs found in this MF4 file.")
		return 0
	}

	report.Head(out, opts.Input, len(ids))

	var db *msgdb.DB
	if opts.DBC != "" {
		db = msgdb.Load(opts.DBC, log)
	}

	records := report.Build(ids, db)
	if opts.SortKey == "name" {
		report.SortByName(records)
	}

	report.Render(out, records, opts.J1939)

	if opts.CSV {
		path := opts.CSVPath
		if path == "" {
			path = report.DeriveCSVPath(opts.Input)
		}
		if err := report.WriteCSV(path, records); err != nil {
			fmt.Fprintf(os.Stderr, "[!] CSV export failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "\n[✓] Exported CAN ID summary to CSV: %s\n", path)
	}
	return 0
}
