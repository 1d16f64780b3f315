package main

import (
	"flag"
	"fmt"
)

type cliConfig struct {
	Mode     string
	SpecPath string
	LogPath  string
	Output   string
	Workers  int
	TestOnly bool
	Store    bool
	Verbose  bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Mode, "mode", "analyze", "Run mode: analyze or parse")
	flag.StringVar(&cfg.SpecPath, "spec", "", "Path to analysis spec YAML (analyze mode)")
	flag.StringVar(&cfg.LogPath, "log", "", "Path to a boot log JSON document (parse mode)")
	flag.StringVar(&cfg.Output, "output", "", "Output directory (analyze mode, overrides spec) or JSON file (parse mode)")
	flag.IntVar(&cfg.Workers, "workers", 0, "Concurrent runs and streams (overrides spec when > 0)")
	flag.BoolVar(&cfg.TestOnly, "test-only", false, "Scan only the lines of the marked test section (parse mode)")
	flag.BoolVar(&cfg.Store, "store", false, "Also save tidy rows to the storage selected by STORAGE_TYPE")
	flag.BoolVar(&cfg.Verbose, "v", false, "Debug logging")

	flag.Parse()
	return cfg
}

func (c cliConfig) validate() error {
	switch c.Mode {
	case "analyze":
		if c.SpecPath == "" {
			return fmt.Errorf("analyze mode requires -spec")
		}
	case "parse":
		if c.LogPath == "" {
			return fmt.Errorf("parse mode requires -log")
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
