package config

import (
	"flag"
	"fmt"
	"io"
)

// parseFlags parses the command-line flags found in args.
//
// Flags:
//
//	-c/-config local defaults file path
//	-port      listen port
//
// A port flag that is not a positive integer is ignored, matching the PORT
// environment variable.
func parseFlags(args []string) (*StructuredConfig, error) {
	var localConfigPath string
	var port int

	fs := flag.NewFlagSet("baas-sample", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&localConfigPath, "c", "", "Local defaults file path")
	fs.StringVar(&localConfigPath, "config", "", "Local defaults file path (alias)")
	fs.IntVar(&port, "port", 0, "Listen port")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if port < 1 || port > 65535 {
		port = 0
	}

	return &StructuredConfig{
		Server:          Server{Port: port},
		LocalConfigPath: localConfigPath,
	}, nil
}
