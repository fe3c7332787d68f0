// cmd/modelc/main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"modelc/internal/analyzer"
	"modelc/internal/ast"
	"modelc/internal/catalog"
	"modelc/internal/diagnostics"
	"modelc/internal/mir"
	"modelc/internal/optimizer"
)

const VERSION = "0.1.0"

// Command aliases, same shape as the teacher CLI's commandAliases map.
var commandAliases = map[string]string{
	"c": "check",
	"v": "version",
	"h": "help",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		showVersion()
	case "check":
		if err := runCheck(args[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("modelc - statistical model compiler frontend")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  modelc check [file.json]   Type-check and optimize a program   (alias: c)")
	fmt.Println("                             Reads a JSON-encoded untyped AST from")
	fmt.Println("                             file.json, or from stdin when omitted.")
	fmt.Println("  modelc version             Print the version                   (alias: v)")
	fmt.Println("  modelc help                Show this message                   (alias: h)")
	fmt.Println()
	fmt.Println("modelc check exits non-zero when the program has semantic errors.")
}

func showVersion() {
	fmt.Printf("modelc version %s\n", VERSION)
}

// runCheck reads a JSON-encoded untyped program from a file argument (or
// stdin when none is given), runs the §4.5 analyzer and §4.6 optimizer
// over it, and reports diagnostics plus a trailing summary line.
func runCheck(args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}

	untyped, err := ast.DecodeUntypedProgram(data)
	if err != nil {
		return fmt.Errorf("decoding program: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading builtin catalog: %w", err)
	}

	typed, sink := analyzer.Analyze(untyped, analyzer.Options{ModelName: untyped.Name}, cat)

	reporter := diagnostics.NewReporter(os.Stderr, os.Stderr.Fd(), false)
	for _, d := range sink.Diagnostics() {
		reporter.Report(d)
	}

	nodeCount := 0
	if !sink.HasFatal() {
		program := optimizer.New(cat).Program(mir.ToMIR(typed))
		exprs, stmts := mir.Associate(program)
		nodeCount = len(exprs) + len(stmts)
	}

	errCount := len(sink.Diagnostics())
	reporter.Summary(nodeCount, errCount)

	if sink.HasErrors() {
		os.Exit(1)
	}
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}
