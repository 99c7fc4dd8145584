package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tswinrt/tswinrt/internal/driver"
	"github.com/tswinrt/tswinrt/internal/policy"
)

const version = "0.0.1-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--version", "-v":
		fmt.Println("tswinrt", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	}

	sum, err := driver.Run(args, driver.Options{Policy: policy.Default(), Now: time.Now()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "wrote %d file(s) to %s\n", sum.FilesWritten, sum.OutDir)
	for _, skipped := range sum.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s (not projectable)\n", skipped)
	}
	for _, w := range sum.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	return 0
}

func printUsage() {
	fmt.Println("tswinrt - projects Windows Runtime metadata (.winmd) into TypeScript")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tswinrt <file.winmd> [more.winmd ...]")
	fmt.Println()
	fmt.Println("Output is written under <cwd>/<assembly-name>/, mirroring the")
	fmt.Println("metadata's namespace tree, plus a top-level index.ts.")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version, -v    Print version and exit")
	fmt.Println("  --help, -h       Print this help message")
}
