package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/config"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/dictstore"
)

// NewDictionaryCmd builds `sentencia dictionary` with show and validate
// subcommands.
func NewDictionaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Inspect and validate the phrase dictionary",
	}
	cmd.AddCommand(newDictionaryShowCmd(), newDictionaryValidateCmd())
	return cmd
}

func newDictionaryShowCmd() *cobra.Command {
	var dictPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active dictionary categories, phrases, and tiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			path := dictPath
			if path == "" {
				path = cliCtx.Config.Dictionary.Path
			}
			store, err := dictstore.NewStore(config.DictionaryConfig{Path: path}, cliCtx.Logger, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			dict, tiers := store.Dictionary(), store.TierTable()
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printJSON(cmd, map[string]any{
					"categories": dict.Categories(),
					"tiers":      tiers,
				})
			}

			var rows [][]string
			for _, c := range dict.Categories() {
				tier := string(tiers[c.Name])
				if tier == "" {
					tier = "-"
				}
				rows = append(rows, []string{
					c.Name,
					tier,
					fmt.Sprintf("%d", len(c.Phrases)),
					strings.Join(c.Phrases, ", "),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable([]string{"CATEGORY", "TIER", "PHRASES", "SAMPLE"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&dictPath, "dictionary", "", "dictionary JSON file (default: from config)")
	return cmd
}

func newDictionaryValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a dictionary JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("cannot read dictionary file %s: %w", args[0], err)
			}
			store, err := dictstore.NewStore(config.DictionaryConfig{Path: args[0]}, cliCtx.Logger, nil)
			if err != nil {
				return fmt.Errorf("dictionary %s is invalid: %w", args[0], err)
			}
			defer store.Close()

			dict := store.Dictionary()
			phrases := 0
			for _, c := range dict.Categories() {
				phrases += len(c.Phrases)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d categories, %d phrases, %d tier assignments\n",
				dict.Len(), phrases, len(store.TierTable()))

			// Point out categories the tier table does not cover; they count
			// phrases but contribute nothing to the risk score.
			var unweighted []string
			for _, name := range dict.CategoryNames() {
				if _, ok := store.TierTable()[name]; !ok {
					unweighted = append(unweighted, name)
				}
			}
			if len(unweighted) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Note: %d categor%s without tier assignment: %s\n",
					len(unweighted), pluralYIes(len(unweighted)), strings.Join(unweighted, ", "))
			}
			return nil
		},
	}
}

func pluralYIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
