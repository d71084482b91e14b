package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/application/analysis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/config"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/dictstore"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
)

// NewAnalyzeCmd builds `sentencia analyze <dir>`: run the full pipeline over
// a directory of .txt judgment files, entirely in process.
func NewAnalyzeCmd() *cobra.Command {
	var (
		dictPath    string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "analyze <dir>",
		Short: "Analyze a directory of judgment .txt files",
		Long: "Reads every .txt file under <dir>, detects the judicial instance of\n" +
			"each judgment, counts key phrases, and prints the aggregated risk\n" +
			"assessment and outcome prediction.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runAnalyze(cmd, cliCtx, args[0], dictPath, concurrency)
		},
	}

	cmd.Flags().StringVar(&dictPath, "dictionary", "", "dictionary JSON file (default: embedded dictionary)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "document workers (default: from config)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, cliCtx *CLIContext, dir, dictPath string, concurrency int) error {
	corpus, skipped, err := loadCorpus(dir, cliCtx.Logger)
	if err != nil {
		return err
	}
	for _, name := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped unreadable file %s\n", name)
	}

	opts := []analysis.Option{
		analysis.WithCalibration(cliCtx.Config.Calibration),
		analysis.WithoutCache(),
	}
	if dictPath != "" {
		store, err := dictstore.NewStore(config.DictionaryConfig{Path: dictPath}, cliCtx.Logger, nil)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, analysis.WithDictionary(store.Dictionary(), store.TierTable()))
	}
	if concurrency > 0 {
		opts = append(opts, analysis.WithConcurrency(concurrency))
	}

	service, err := analysis.NewService(nil, nil, nil, nil, cliCtx.Logger, opts...)
	if err != nil {
		return err
	}
	result, err := service.AnalyzeCorpus(cmd.Context(), corpus)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, result)
	}
	printAnalysisSummary(cmd, result)
	return nil
}

// loadCorpus walks dir collecting .txt files in name order.  Unreadable
// files are reported, not fatal.
func loadCorpus(dir string, log logging.Logger) (*document.Corpus, []string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%s is not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)

	corpus := document.NewCorpus(filepath.Base(dir))
	var skipped []string
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable file", logging.String("path", path), logging.Err(err))
			skipped = append(skipped, filepath.Base(path))
			continue
		}
		corpus.Add(filepath.Base(path), string(content))
	}
	if len(corpus.Documents) == 0 {
		return nil, skipped, fmt.Errorf("no .txt files found under %s", dir)
	}
	return corpus, skipped, nil
}

func printAnalysisSummary(cmd *cobra.Command, result *analysis.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Corpus: %s (%d documents; TS=%d TSJ=%d other=%d)\n\n",
		result.CorpusName, result.Tally.Total(),
		result.Tally.TS, result.Tally.TSJ, result.Tally.Other)

	var rows [][]string
	for _, c := range result.Risk.Contributions {
		rows = append(rows, []string{
			c.Category,
			string(c.Tier),
			fmt.Sprintf("%d", c.Count),
			fmt.Sprintf("%.1f", c.Weighted),
		})
	}
	fmt.Fprint(out, FormatTable([]string{"CATEGORY", "TIER", "COUNT", "WEIGHTED"}, rows))

	fmt.Fprintf(out, "\nRisk: %s (base %.1f x factor %.2f = %.1f)\n",
		result.Risk.Level, result.Risk.BaseScore, result.Risk.InstanceFactor, result.Risk.FinalScore)
	fmt.Fprintf(out, "Outcome: favorable %.0f%% / unfavorable %.0f%% (confidence %.0f%%)\n",
		result.Prediction.ProbabilityFavorable*100,
		result.Prediction.ProbabilityUnfavorable*100,
		result.Prediction.Confidence*100)

	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "\nSkipped %d document(s):\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Fprintf(out, "  %s: %s\n", s.Name, s.Reason)
		}
	}
	if len(result.Insights.Recommendations) > 0 {
		fmt.Fprintln(out)
		for _, rec := range result.Insights.Recommendations {
			fmt.Fprintf(out, "- [%s] %s: %s\n", rec.Priority, rec.Title, rec.Description)
		}
	}
}
