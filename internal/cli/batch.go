package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kulint/kulint/internal/check"
	"github.com/kulint/kulint/internal/corpus"
	"github.com/kulint/kulint/internal/model"
	"github.com/kulint/kulint/internal/report"
	"github.com/kulint/kulint/internal/worker"
)

var (
	batchTimeout time.Duration
	batchWorkers int
	batchOutDir  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Check multiple corpus files concurrently",
	Long: `Batch reads corpus file paths from a list file (one per line, # for
comments) and runs the full consistency check over each concurrently.
Each corpus gets its own isolated run and report.

Exit code is the worst outcome across all corpora.

Example:
  kulint batch corpora.txt
  kulint batch corpora.txt --workers 8 --out-dir reports/`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent corpus runs (default from config)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for per-corpus JSON reports (optional)")
}

// checkRunner adapts the checker to the worker pool. Each corpus run builds
// its own checker so runs stay isolated.
type checkRunner struct {
	cfg *model.Config
}

func (r *checkRunner) CheckFile(ctx context.Context, path string) (*model.Report, error) {
	kus, err := corpus.Load(path)
	if err != nil {
		return nil, err
	}

	checker, err := check.NewChecker(r.cfg)
	if err != nil {
		return nil, err
	}

	rep, err := checker.CheckAll(ctx, kus)
	if err != nil {
		return nil, err
	}
	rep.CorpusPath = path
	return rep, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	listPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()
	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}

	processor := worker.NewBatchProcessor(&checkRunner{cfg: cfg}, workers)
	results, err := processor.ProcessFile(ctx, listPath)
	if err != nil {
		return err
	}

	worst := exitClean
	failed := 0
	for _, result := range results {
		fmt.Printf("=== %s\n", result.Path)
		if result.Error != nil {
			fmt.Printf("run error: %v\n\n", result.Error)
			failed++
			worst = maxExit(worst, exitRunError)
			continue
		}

		fmt.Print(report.Render(result.Report))
		fmt.Println()
		worst = maxExit(worst, exitCode(result.Report))

		if batchOutDir != "" {
			if err := writeBatchReport(result, batchOutDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checked %d corpora, %d failed to run\n", len(results), failed)
	}

	if worst != exitClean {
		os.Exit(worst)
	}
	return nil
}

func writeBatchReport(result *worker.CheckResult, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	name := strings.TrimSuffix(result.Path, ".json")
	name = strings.TrimSuffix(name, ".yaml")
	name = strings.TrimSuffix(name, ".yml")
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")

	return report.RenderJSON(result.Report, dir+string(os.PathSeparator)+name+".report.json")
}

// maxExit picks the more severe exit code; run errors dominate
func maxExit(a, b int) int {
	rank := func(code int) int {
		switch code {
		case exitRunError:
			return 3
		case exitFatal:
			return 2
		case exitAdvisory:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
