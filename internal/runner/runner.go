package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"intvm/internal/config"
	"intvm/internal/logger"
	"intvm/pkg/color"
	"intvm/pkg/disasm"
	"intvm/pkg/interpreter"
	"intvm/pkg/script"

	"github.com/charmbracelet/log"
)

// DefaultConfigFile is read, if present, when no -config flag is given.
const DefaultConfigFile = "intvm.toml"

type Runner struct {
	Help       bool     // Show help message
	Verbose    bool     // Trace every instruction
	NoColor    bool     // Disable colored output
	Disasm     bool     // Print the procedure table and listing before running
	ConfigFile string   // Path to the engine configuration
	ScriptFile string   // Path to the script file
	Procedure  string   // Procedure to call; empty runs from the entry point
	MaxSteps   int      // Step budget, overrides the configuration when > 0
	Args       []string // Arguments for the directed call

	Stdout io.Writer
	Stderr io.Writer
}

// Config loads the engine configuration and applies the command line on top of it.
func (r *Runner) Config() (config.Config, error) {
	path, optional := r.ConfigFile, false
	if path == "" {
		path, optional = DefaultConfigFile, true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return cfg, err
	}

	if r.Verbose {
		cfg.Log.Debug = true
	}
	if r.NoColor {
		cfg.Log.NoColor = true
	}
	if r.MaxSteps > 0 {
		cfg.Engine.MaxSteps = r.MaxSteps
	}

	return cfg, nil
}

// Run loads the script, executes it and prints what it left behind. Stopping on
// an unimplemented opcode is reported as a warning, not an error.
func (r *Runner) Run() error {
	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, err := r.Config()
	if err != nil {
		return err
	}

	l := logger.Init(stderr, cfg.Log.Debug, cfg.Log.NoColor)
	if cfg.Log.NoColor {
		color.EnableColor(false)
	}

	l.Debug("Loading script", "file", r.ScriptFile)
	loaded, err := script.LoadFile(r.ScriptFile)
	if err != nil {
		return err
	}

	it := interpreter.NewInterpreter(loaded.Script,
		interpreter.WithLogger(l),
		interpreter.WithMaxSteps(cfg.Engine.MaxSteps),
		interpreter.WithDisasmOnUnimplemented(cfg.Engine.DisasmOnUnimplemented),
	)

	if r.Disasm {
		if err := r.printListing(stdout, it); err != nil {
			return err
		}
	}

	if r.Procedure != "" {
		return r.call(stdout, it)
	}

	entry, err := loaded.EntryOffset()
	if err != nil {
		return err
	}
	it.SetPC(entry)

	if err := it.Run(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if stop, ok := it.Unimplemented(); ok {
		warn(stdout, stop)
	}

	fmt.Fprintln(stdout, color.GreenText("=== Data Stack ==="))
	stack := it.DataStack()
	if len(stack) == 0 {
		fmt.Fprintln(stdout, color.GrayText("(empty)"))
	}
	for k, v := range stack {
		fmt.Fprintf(stdout, "%s: %s\n", color.CyanText(fmt.Sprintf("%d", k)), color.BlueText(v.String()))
	}

	return nil
}

func (r *Runner) call(w io.Writer, it *interpreter.Interpreter) error {
	args := make([]interpreter.Value, len(r.Args))
	for k, a := range r.Args {
		args[k] = interpreter.ParseValue(a)
	}

	result, err := it.Call(r.Procedure, args...)

	var stop *interpreter.UnimplementedOpcodeError
	if errors.As(err, &stop) {
		warn(w, stop)
		return nil
	}
	if err != nil {
		return fmt.Errorf("call %s failed: %w", r.Procedure, err)
	}

	log.Debug("Call finished", "procedure", r.Procedure, "kind", result.Kind)
	fmt.Fprintf(w, "%s %s\n", color.GreenText(r.Procedure+" =>"), color.BlueText(result.String()))
	return nil
}

func (r *Runner) printListing(w io.Writer, it *interpreter.Interpreter) error {
	fmt.Fprintln(w, color.BoldText("=== Procedures ==="))
	fmt.Fprint(w, disasm.Procedures(it.Script()))

	listing, err := it.Disassemble()
	if err != nil {
		return fmt.Errorf("disassembly failed: %w", err)
	}
	fmt.Fprintln(w, color.BoldText("=== Code ==="))
	fmt.Fprint(w, listing)
	return nil
}

func warn(w io.Writer, stop *interpreter.UnimplementedOpcodeError) {
	fmt.Fprintln(w, color.Warning(stop.Error()))
}
