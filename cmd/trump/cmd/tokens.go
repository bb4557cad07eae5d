package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abyanmajid/trump/internal/render"
)

var (
	tokensExpr  string
	tokensTable bool
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [FILE|-]",
	Short: "Print the token stream",
	Long: `Tokenizes source and prints one token per line as
line:column, type and lexeme. Use --table for an aligned table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().StringVarP(&tokensExpr, "expr", "e", "", "tokenize this source instead of a file")
	tokensCmd.Flags().BoolVar(&tokensTable, "table", false, "render as a table")
}

func runTokens(cmd *cobra.Command, args []string) error {
	cfg, _, engine, err := setup()
	if err != nil {
		return err
	}

	source, err := readSource(cmd, args, tokensExpr)
	if err != nil {
		return err
	}

	tokens, err := engine.Tokenize(source)
	if err != nil {
		return err
	}

	if tokensTable {
		fmt.Fprintln(cmd.OutOrStdout(), render.Tokens(tokens, outputStyle(cfg)))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), render.TokenLines(tokens))
	return nil
}
