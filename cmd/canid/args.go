package main

import (
	"fmt"
	"io"
	"strings"
)

// options holds the parsed command line.
type options struct {
	Input   string
	DBC     string
	CSV     bool   // --csv present
	CSVPath string // explicit value, empty means auto-derive
	SortKey string // "id" or "name"
	J1939   bool
	Verbose bool
}

const usageLine = "Usage: canid <file.mf4> [-d file.dbc] [--csv [out.csv]] [--sort id|name] [--j1939] [-v]"

// parseArgs parses the argument list. The --csv flag takes an optional
// value, which the stdlib flag package can't express, so the grammar is
// parsed by hand: valued flags accept both "--flag value" and
// "--flag=value" forms.
func parseArgs(args []string) (options, error) {
	opts := options{SortKey: "id"}
	seenInput := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		name, value, hasValue := strings.Cut(arg, "=")

		// takeValue consumes the =-joined value or the next argument.
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s requires a value", name)
			}
			i++
			return args[i], nil
		}

		switch name {
		case "-d", "--dbc":
			v, err := takeValue()
			if err != nil {
				return opts, err
			}
			opts.DBC = v
		case "--csv":
			opts.CSV = true
			if hasValue {
				opts.CSVPath = value
			} else if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				opts.CSVPath = args[i]
			}
		case "--sort":
			v, err := takeValue()
			if err != nil {
				return opts, err
			}
			if v != "id" && v != "name" {
				return opts, fmt.Errorf("invalid --sort value %q (choose from id, name)", v)
			}
			opts.SortKey = v
		case "--j1939":
			opts.J1939 = true
		case "-v", "--verbose":
			opts.Verbose = true
		default:
			if strings.HasPrefix(name, "-") {
				return opts, fmt.Errorf("unknown flag: %s", name)
			}
			if seenInput {
				return opts, fmt.Errorf("unexpected argument: %s", arg)
			}
			opts.Input = arg
			seenInput = true
		}
	}

	if !seenInput {
		return opts, fmt.Errorf("missing path to the .mf4 file")
	}
	return opts, nil
}

// printManual writes the full usage manual shown when the tool is invoked
// with no arguments.
func printManual(w io.Writer) {
	fmt.Fprint(w, `MF4 CAN ID Inspector

This tool lists unique CAN IDs from an MF4 file, identifies standard vs
extended IDs, and optionally decodes them using a DBC. You can also export
results to CSV.

`+usageLine+`

Examples:
    canid test.MF4
    canid test.MF4 -d j1939.dbc
    canid test.MF4 -d j1939.dbc --csv
    canid test.MF4 -d j1939.dbc --csv output.csv
    canid test.MF4 --csv --sort name

Notes:
- If you use --csv without a filename, it will auto-generate one.
- PGNs are included for extended CAN frames (J1939).
- --j1939 additionally shows the priority and source address packed into
  extended IDs.
`)
}
