// Command validate checks a station dataset file before it is deployed.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	File   string `short:"f" long:"file" description:"Dataset file path" default:"data/mock-data.json"`
	Strict bool   `short:"s" long:"strict" description:"Also require the station properties on every feature"`
	Format string `short:"o" long:"format" description:"Report format" choice:"text" choice:"json" choice:"yaml" default:"text"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	data, err := os.ReadFile(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dataset: %v\n", err)
		os.Exit(2)
	}

	report := buildReport(opts.File, data, opts.Strict)
	if err := writeReport(os.Stdout, report, opts.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(2)
	}

	if !report.Valid {
		os.Exit(1)
	}
}
