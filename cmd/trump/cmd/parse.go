package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang/ast"
	"github.com/abyanmajid/trump/foundation/utils/stringx"
	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/internal/inspect/rpc"
	"github.com/abyanmajid/trump/internal/render"
	coregrpc "github.com/abyanmajid/trump/pkg/core/grpc"
)

var (
	parseExpr   string
	parseFormat string
	parseStats  bool
	parseSave   bool
	parseRemote string
)

var parseCmd = &cobra.Command{
	Use:   "parse [FILE|-]",
	Short: "Parse source and print the syntax tree",
	Long: `Parses expressions from a file, stdin or --expr and prints the
syntax tree. Diagnostics go to stderr and make the command exit non-zero.

Examples:
  trump parse -e "1 + 2 * 3"
  trump parse --format json calc.tr
  echo "2 ^ 3 ^ 2" | trump parse --stats
  trump parse --remote 127.0.0.1:9090 -e "(1 + 2) * 3"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "expr", "e", "", "parse this source instead of a file")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: tree, json, yaml (default from config)")
	parseCmd.Flags().BoolVar(&parseStats, "stats", false, "print tree statistics")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "record the parse in the history store")
	parseCmd.Flags().StringVar(&parseRemote, "remote", "", "parse on a running server (gRPC address)")
	parseCmd.MarkFlagsMutuallyExclusive("save", "remote")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, logger, engine, err := setup()
	if err != nil {
		return err
	}

	format, err := render.ParseFormat(stringx.FirstNonBlank(parseFormat, cfg.Output.Format))
	if err != nil {
		return err
	}

	source, err := readSource(cmd, args, parseExpr)
	if err != nil {
		return err
	}

	if parseRemote != "" {
		return runRemoteParse(cmd, parseRemote, source, format, cfg.Output.Indent)
	}

	result, err := engine.Parse(source)
	if err != nil {
		return err
	}

	style := outputStyle(cfg)
	out, err := render.Program(result.Program, format, cfg.Output.Indent, style)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if parseStats {
		fmt.Fprint(cmd.OutOrStdout(), render.Stats(result.Stats(), style))
	}

	if parseSave {
		store, err := openHistory(cfg, true)
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := history.NewEntry(result)
		if err != nil {
			return err
		}
		if err := store.Record(cmd.Context(), entry); err != nil {
			return err
		}
		logger.Info("parse recorded", mdwlog.Fields{"id": entry.ID})
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", entry.ID)
	}

	if !result.OK() {
		fmt.Fprint(cmd.ErrOrStderr(), render.Diagnostics(result.Diagnostics, style))
		return errDiagnostics
	}
	return nil
}

// runRemoteParse prints the server's document. A remote tree is only
// available as a document, so tree output falls back to JSON.
func runRemoteParse(cmd *cobra.Command, addr, source string, format render.Format, indent string) error {
	conn, err := coregrpc.DialSimple(addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	resp, err := rpc.NewClient(conn).Parse(ctx, source, parseStats)
	if err != nil {
		return mdwerror.Wrap(err, "remote parse failed").WithCode(mdwerror.CodeServiceUnavailable)
	}
	fields := resp.GetFields()

	doc := ast.Document(fields["program"].GetStructValue().AsMap())
	var out []byte
	if format == render.FormatYAML {
		out, err = render.YAML(doc)
	} else {
		out, err = render.JSON(doc, indent)
	}
	if err != nil {
		return err
	}
	cmd.OutOrStdout().Write(out)

	if stats := fields["stats"].GetStructValue(); stats != nil {
		m := stats.AsMap()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s%v\n", k, m[k])
		}
	}

	var messages []string
	for _, v := range fields["errors"].GetListValue().GetValues() {
		messages = append(messages, v.GetStringValue())
	}
	if len(messages) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), strings.Join(messages, "\n"))
		return errDiagnostics
	}
	return nil
}
