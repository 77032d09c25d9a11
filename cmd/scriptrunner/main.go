// scriptrunner is the CLI entry point: it runs a Script file against a
// device-automation backend, recording the result to run history and
// optionally starting a language server or printing a report instead.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/scriptrunner/internal/builtins"
	"github.com/chazu/scriptrunner/internal/config"
	"github.com/chazu/scriptrunner/internal/devicefarm"
	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/eval"
	"github.com/chazu/scriptrunner/internal/host"
	"github.com/chazu/scriptrunner/internal/lspserver"
	"github.com/chazu/scriptrunner/internal/parser"
	"github.com/chazu/scriptrunner/internal/report"
	"github.com/chazu/scriptrunner/internal/runhistory"
)

const version = "0.1.0"

func main() {
	var (
		configPath  string
		serveLSP    bool
		showReport  bool
		dbPath      string
		showVersion bool
		showHelp    bool
	)

	args := os.Args[1:]
	var scriptPath string

	i := 0
	for i < len(args) {
		switch args[i] {
		case "--config":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --config requires a path argument")
				os.Exit(1)
			}
			configPath = args[i]
		case "--serve-lsp":
			serveLSP = true
		case "--report":
			showReport = true
		case "--db":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --db requires a path argument")
				os.Exit(1)
			}
			dbPath = args[i]
		case "--version", "-v":
			showVersion = true
		case "--help", "-h":
			showHelp = true
		default:
			if scriptPath == "" {
				scriptPath = args[i]
			} else {
				fmt.Fprintf(os.Stderr, "Unexpected argument: %s\n", args[i])
				os.Exit(1)
			}
		}
		i++
	}

	if showHelp {
		printUsage()
		return
	}
	if showVersion {
		fmt.Printf("scriptrunner %s\n", version)
		return
	}
	if dbPath == "" {
		dbPath = defaultDBPath()
	}

	store, err := runhistory.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if showReport {
		if err := printReport(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if serveLSP {
		srv := lspserver.NewServer()
		if err := srv.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Language server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if scriptPath == "" {
		printUsage()
		os.Exit(1)
	}

	os.Exit(runScript(scriptPath, configPath, store))
}

func runScript(scriptPath, configPath string, store *runhistory.Store) int {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	stmts, lexErrs, parseErrs := parser.Parse(string(source))
	if len(lexErrs) > 0 {
		fmt.Fprintln(os.Stderr, "Lexer errors:")
		for _, e := range lexErrs {
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
		return 1
	}
	if len(parseErrs) > 0 {
		fmt.Fprintln(os.Stderr, "Parser errors:")
		for _, e := range parseErrs {
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
		return 1
	}

	collaborator, err := devicefarm.Dial(cfg.Collaborator.Address, cfg.Collaborator.UseTLS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	h := host.New(collaborator, cfg, nil)

	env := environment.New()
	builtins.RegisterAll(env, h)

	run, err := store.BeginRun(scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ev := eval.New(env)
	ev.Run(stmts)

	recorded := make([]runhistory.RecordedError, 0, len(ev.Errors()))
	for _, e := range ev.Errors() {
		recorded = append(recorded, runhistory.RecordedError{
			Phase:   "runtime",
			Message: e.Message,
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
		})
	}
	if err := store.FinishRun(run, recorded); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(ev.Errors()) > 0 {
		fmt.Fprintln(os.Stderr, "Runtime errors:")
		for _, e := range ev.Errors() {
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func printReport(store *runhistory.Store) error {
	runs, err := store.Recent(100)
	if err != nil {
		return err
	}
	reporter, err := report.NewReporter()
	if err != nil {
		return err
	}
	defer reporter.Close()

	if err := reporter.LoadRuns(runs); err != nil {
		return err
	}
	summary, err := reporter.Summary()
	if err != nil {
		return err
	}

	fmt.Printf("Runs:    %d\n", summary.TotalRuns)
	fmt.Printf("Passed:  %d\n", summary.PassedRuns)
	fmt.Printf("Failed:  %d\n", summary.FailedRuns)
	fmt.Printf("Median:  %.1fms\n", summary.MedianMs)
	fmt.Printf("P95:     %.1fms\n", summary.P95Ms)
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scriptrunner-history.db"
	}
	return filepath.Join(home, ".scriptrunner", "history.db")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: scriptrunner [options] <script.rs>\n\n")
	fmt.Fprintf(os.Stderr, "Runs a Script file against a device-automation backend.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --config PATH    Load configuration from PATH (TOML)\n")
	fmt.Fprintf(os.Stderr, "  --db PATH        Run-history database path (default ~/.scriptrunner/history.db)\n")
	fmt.Fprintf(os.Stderr, "  --report         Print a summary of recent runs instead of executing a script\n")
	fmt.Fprintf(os.Stderr, "  --serve-lsp      Start the language server on stdio\n")
	fmt.Fprintf(os.Stderr, "  -v, --version    Print version and exit\n")
	fmt.Fprintf(os.Stderr, "  -h, --help       Show this message\n")
}
