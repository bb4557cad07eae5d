package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	"github.com/abyanmajid/trump/foundation/lang/ast"
	"github.com/abyanmajid/trump/foundation/utils/stringx"
	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/internal/render"
)

var (
	historyLimit  int
	historyFailed bool
	historyKeep   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored parses",
	Long: `Lists, shows and deletes parses recorded with --save, the REPL
or the inspection API. The store location comes from history.path.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent parses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a stored parse",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored parse",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Keep only the newest entries",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyPruneCmd, historyStatsCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries")
	historyListCmd.Flags().BoolVar(&historyFailed, "failed", false, "only parses with errors")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 100, "entries to keep")
}

func withStore(fn func(store *history.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openHistory(cfg, true)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withStore(func(store *history.Store) error {
		entries, err := store.List(cmd.Context(), history.Filter{Limit: historyLimit, OnlyFailed: historyFailed})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no entries")
			return nil
		}

		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{
				e.ID,
				e.CreatedAt.Local().Format(time.DateTime),
				strconv.Itoa(e.ErrorCount),
				stringx.Truncate(stringx.SingleLine(e.Source), 40, "…"),
			}
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "CREATED", "ERRORS", "SOURCE").
			Rows(rows...)
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withStore(func(store *history.Store) error {
		entry, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var doc ast.Document
		dec := json.NewDecoder(bytes.NewReader(entry.Document))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return mdwerror.Wrap(err, "stored document is corrupt").WithCode(mdwerror.CodeStorageError)
		}
		out, err := render.JSON(doc, "  ")
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "id:      %s\ncreated: %s\nsource:  %s\n", entry.ID, entry.CreatedAt.Local().Format(time.RFC3339), entry.Source)
		for _, msg := range entry.Errors {
			fmt.Fprintf(w, "error:   %s\n", msg)
		}
		w.Write(out)
		return nil
	})
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	return withStore(func(store *history.Store) error {
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	})
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if historyKeep < 0 {
		return mdwerror.Newf("--keep must not be negative: %d", historyKeep).WithCode(mdwerror.CodeInvalidInput)
	}
	return withStore(func(store *history.Store) error {
		removed, err := store.Prune(cmd.Context(), historyKeep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", removed)
		return nil
	})
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	return withStore(func(store *history.Store) error {
		stats, err := store.Statistics(cmd.Context())
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s%v\n", k, stats[k])
		}
		return nil
	})
}
