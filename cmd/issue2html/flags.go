package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// Input formats accepted by --format.
const (
	formatAuto     = "auto"
	formatMarkup   = "markup"
	formatDocument = "document"
	formatActivity = "activity"
)

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	format         string
	out            string
	baseURL        string
	attachmentsDir string
	config         string
	quiet          bool
	verbose        bool
	showVersion    bool
}

// parseFlags parses args (including the program name) and returns the flags
// and remaining positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	flags := &cliFlags{}

	fs := flag.NewFlagSet("issue2html", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: issue2html [flags] <input-file>")
		fmt.Fprintln(fs.Output(), "\nRenders tracker content (markup text, a structured document tree, or")
		fmt.Fprintln(fs.Output(), "an activity stream) to a sanitized HTML fragment.")
		fmt.Fprintln(fs.Output(), "\nFlags:")
		fs.PrintDefaults()
	}

	fs.StringVarP(&flags.format, "format", "f", formatAuto,
		"input format: auto, markup, document, or activity")
	fs.StringVarP(&flags.out, "out", "o", "",
		"output file (default: stdout)")
	fs.StringVar(&flags.baseURL, "base-url", "",
		"tracker base URL used to match attachment references")
	fs.StringVar(&flags.attachmentsDir, "attachments-dir", "",
		"directory of attachment files named <id>-<name>")
	fs.StringVarP(&flags.config, "config", "c", "",
		"YAML config file (default: .issue2html.yaml if present)")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false,
		"suppress progress output")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false,
		"verbose output")
	fs.BoolVar(&flags.showVersion, "version", false,
		"print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}

// validFormat reports whether f is an accepted --format value.
func validFormat(f string) bool {
	switch f {
	case formatAuto, formatMarkup, formatDocument, formatActivity:
		return true
	}
	return false
}
