package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/abyanmajid/trump/foundation/lang/parser"
	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/internal/render"
	"github.com/abyanmajid/trump/pkg/core/config"
	"github.com/abyanmajid/trump/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// errDiagnostics signals that diagnostics were already printed
var errDiagnostics = errors.New("source has syntax errors")

var rootCmd = &cobra.Command{
	Use:   "trump",
	Short: "trump - expression language front-end",
	Long: `trump tokenizes and parses arithmetic expressions into a syntax tree.

Commands:
  parse    - parse source and print the tree (tree, json, yaml)
  tokens   - print the token stream
  repl     - interactive parser
  serve    - HTTP/WebSocket and gRPC inspection API
  watch    - re-parse a file on every change
  history  - inspect stored parses`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errDiagnostics) {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $TRUMP_CONFIG or ./trump.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// loadConfig loads --config, or the environment/default locations
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

func newLogger(cfg *config.Config) *mdwlog.Logger {
	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LoggerConfig{
		ServiceName: cfg.General.Name,
		Level:       level,
		Format:      cfg.General.LogFormat,
	})
}

func newEngine(cfg *config.Config, logger *mdwlog.Logger) *lang.Engine {
	assoc, _ := parser.ParseAssociativity(cfg.Parser.PowerAssociativity)
	return lang.NewEngine(lang.Options{
		Logger:             logger,
		MaxSourceLength:    cfg.Parser.MaxSourceLength,
		PowerAssociativity: assoc,
	})
}

// openHistory opens the history store. force opens it even when disabled
// in the config; otherwise a disabled history yields a nil store.
func openHistory(cfg *config.Config, force bool) (*history.Store, error) {
	if !cfg.History.Enabled && !force {
		return nil, nil
	}
	return history.Open(history.Config{
		Path:       cfg.History.Path,
		MaxEntries: cfg.History.MaxEntries,
	})
}

// outputStyle colors only when both the config and the flags allow it
func outputStyle(cfg *config.Config) render.Style {
	return render.Style{Color: cfg.Output.Color && !noColor}
}

// setup loads everything a command needs to parse
func setup() (*config.Config, *mdwlog.Logger, *lang.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg)
	return cfg, logger, newEngine(cfg, logger), nil
}

// readSource reads from --expr, a file argument, or stdin for "-" or none
func readSource(cmd *cobra.Command, args []string, expr string) (string, error) {
	if expr != "" {
		if len(args) > 0 {
			return "", mdwerror.New("--expr cannot be combined with a file argument").
				WithCode(mdwerror.CodeInvalidInput)
		}
		return expr, nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", mdwerror.Wrap(err, "failed to read stdin").WithCode(mdwerror.CodeInvalidInput)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return "", mdwerror.Newf("file not found: %s", args[0]).WithCode(mdwerror.CodeNotFound)
		}
		return "", mdwerror.Wrap(err, "failed to read source file").WithCode(mdwerror.CodeInvalidInput)
	}
	return string(data), nil
}
