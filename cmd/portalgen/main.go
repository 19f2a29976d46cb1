package main

import (
	"fmt"
	"os"

	"github.com/pthm/portal/lib/generator"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "generate":
		if err := runGenerate(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "clean":
		if err := runClean(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("portalgen version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`portalgen - typed accessor generation for portal components

Usage:
  portalgen <command> [arguments]

Commands:
  generate [patterns]   Generate accessors from *.portal.json schemas
  clean [patterns]      Remove generated files (*_portal.go)
  version               Print version
  help                  Show this help

Options for generate:
  --dry-run             Show what would be generated without writing files

Examples:
  portalgen generate ./...                Generate for all packages
  portalgen generate ./components/widget  Generate for one directory
  portalgen generate --dry-run ./...      Preview generation
  portalgen clean ./...                   Remove all generated files`)
}

func runGenerate(args []string) error {
	var dryRun bool
	var patterns []string

	for _, arg := range args {
		if arg == "--dry-run" {
			dryRun = true
		} else {
			patterns = append(patterns, arg)
		}
	}

	gen := generator.New(generator.Options{DryRun: dryRun})
	return gen.Generate(patterns...)
}

func runClean(args []string) error {
	gen := generator.New(generator.Options{})
	return gen.Clean(args...)
}
