package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/internal/render"
	"github.com/abyanmajid/trump/internal/tui/repl"
	"github.com/abyanmajid/trump/pkg/core/config"
	"github.com/abyanmajid/trump/pkg/core/logging"
)

var (
	replHistory bool
	replJSON    bool
	replLogFile string
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive parser",
	Long: `Starts an interactive session. Each line is parsed on enter.

The REPL owns the terminal, so log output is dropped unless --log-file
names a file to append to.

Keys:
  enter    parse the input
  ↑/↓      browse previous input
  ctrl+t   toggle tree and JSON output
  ctrl+l   clear the output
  ctrl+c   quit`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVar(&replHistory, "history", false, "record parses even if history is disabled in the config")
	replCmd.Flags().BoolVar(&replJSON, "json", false, "start in JSON mode")
	replCmd.Flags().StringVar(&replLogFile, "log-file", "", "append log output to this file")
}

func runREPL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := replLogger(cfg, replLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	var store *history.Store
	if cfg.History.Enabled || replHistory {
		store, err = openHistory(cfg, true)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	return repl.Run(replConfig(cfg, logger, store))
}

// replConfig applies the same output settings as `trump parse`
func replConfig(cfg *config.Config, logger *mdwlog.Logger, store *history.Store) repl.Config {
	format := render.FormatTree
	if replJSON || cfg.Output.Format == string(render.FormatJSON) {
		format = render.FormatJSON
	}

	return repl.Config{
		Engine:  newEngine(cfg, logger),
		History: store,
		Format:  format,
		Style:   outputStyle(cfg),
		Logger:  logger,
	}
}

// replLogger keeps log output off the terminal while the TUI draws on it:
// logs go to path when set and are discarded otherwise.
func replLogger(cfg *config.Config, path string) (*mdwlog.Logger, func() error, error) {
	if path == "" {
		return mdwlog.Discard(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, mdwerror.Wrap(err, "failed to create log directory").WithCode(mdwerror.CodeConfigError)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, mdwerror.Wrap(err, "failed to open log file").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.NewLogger(logging.LoggerConfig{
		ServiceName: cfg.General.Name,
		Level:       level,
		Format:      cfg.General.LogFormat,
		Output:      f,
	})
	return logger, f.Close, nil
}
