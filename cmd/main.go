package main

import (
	"flag"
	"fmt"
	"os"

	"intvm/internal/runner"

	"github.com/charmbracelet/log"
)

// Main entry point for the intvm script interpreter.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Trace every instruction")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Disasm, "d", false, "Print procedures and disassembly")
	flag.StringVar(&options.ConfigFile, "config", "", "Engine configuration file (default ./"+runner.DefaultConfigFile+" if present)")
	flag.StringVar(&options.Procedure, "p", "", "Procedure to call with the remaining arguments")
	flag.IntVar(&options.MaxSteps, "max-steps", 0, "Stop after this many instructions (0 = no limit)")

	flag.Parse()
	args := flag.Args()

	if options.Help {
		fmt.Printf("Usage: %s [options] <script.toml> [args...]\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if len(args) == 0 {
		log.Fatal("No script file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.ScriptFile = args[0]
	options.Args = args[1:]

	if err := options.Run(); err != nil {
		log.Fatal("Execution failed", "error", err)
	}
}
