package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/abyanmajid/trump/foundation/utils/stringx"
	"github.com/abyanmajid/trump/internal/render"
	"github.com/abyanmajid/trump/internal/watch"
)

var (
	watchFormat   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-parse a file whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "output format: tree, json, yaml (default from config)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before re-parsing")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, engine, err := setup()
	if err != nil {
		return err
	}

	format, err := render.ParseFormat(stringx.FirstNonBlank(watchFormat, cfg.Output.Format))
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Path:     args[0],
		Debounce: watchDebounce,
		Engine:   engine,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	style := outputStyle(cfg)
	out := cmd.OutOrStdout()
	return w.Run(ctx, func(result *lang.Result, err error) {
		fmt.Fprintf(out, "── %s  %s\n", w.Path(), time.Now().Format("15:04:05"))
		if err != nil {
			fmt.Fprintf(out, "%v\n\n", err)
			return
		}
		rendered, encErr := render.Program(result.Program, format, cfg.Output.Indent, style)
		if encErr != nil {
			fmt.Fprintf(out, "%v\n\n", encErr)
			return
		}
		fmt.Fprint(out, rendered)
		fmt.Fprint(out, render.Diagnostics(result.Diagnostics, style))
		fmt.Fprintln(out, render.Summary(len(result.Program.Statements), len(result.Diagnostics), style))
		fmt.Fprintln(out)
	})
}
