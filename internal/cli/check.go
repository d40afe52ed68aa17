package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kulint/kulint/internal/check"
	"github.com/kulint/kulint/internal/corpus"
	"github.com/kulint/kulint/internal/model"
	"github.com/kulint/kulint/internal/report"
)

// Process exit codes for the CI contract: the engine only classifies,
// the CLI maps severities to codes.
const (
	exitClean    = 0 // no issues
	exitFatal    = 1 // at least one high or critical issue
	exitRunError = 2 // the run itself failed (bad config, unreadable corpus)
	exitAdvisory = 3 // only medium/low issues
)

var (
	outJSON      string
	timeout      time.Duration
	storeURL     string
	collection   string
	embProvider  string
	embModel     string
	dupThreshold float64
	noCache      bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <corpus-file>",
	Short: "Run all consistency checks against a knowledge corpus",
	Long: `Check runs the four consistency validators against a corpus file:
- chunk_existence: every cited chunk id resolves in the vector store
- page_boundaries: cited pages fall inside the chunk's page extent
- duplicate_claims: no two claims are semantic near-duplicates
- confidence_levels: declared confidence matches the source-count heuristic

All validators run independently; per-record problems become report issues,
never crashes.

Exit codes: 0 = clean, 1 = high/critical issues, 2 = run error,
3 = only medium/low issues.

Example:
  kulint check corpus.json
  kulint check corpus.yaml --json report.json
  kulint check corpus.json --embedding-provider openai --duplicate-threshold 0.9`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")
	checkCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall check timeout")
	checkCmd.Flags().StringVar(&storeURL, "store-url", "", "vector store URL (default http://localhost:8000)")
	checkCmd.Flags().StringVar(&collection, "collection", "", "vector store collection name")
	checkCmd.Flags().StringVar(&embProvider, "embedding-provider", "", "embedding provider (openai, ollama)")
	checkCmd.Flags().StringVar(&embModel, "embedding-model", "", "embedding model name")
	checkCmd.Flags().Float64Var(&dupThreshold, "duplicate-threshold", 0, "cosine similarity threshold for duplicate claims")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()

	kus, err := corpus.Load(path)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s (%d knowledge units)\n", path, len(kus))
		fmt.Fprintf(os.Stderr, "Store: %s collection=%s\n", cfg.Store.URL, cfg.Store.Collection)
		fmt.Fprintf(os.Stderr, "Embedding: %s/%s\n", cfg.Embedding.Provider, cfg.Embedding.Model)
		fmt.Fprintln(os.Stderr)
	}

	checker, err := check.NewChecker(cfg)
	if err != nil {
		return err
	}

	rep, err := checker.CheckAll(ctx, kus)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	rep.CorpusPath = path

	if outJSON != "" {
		if err := report.RenderJSON(rep, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON report: %s\n", outJSON)
		}
	}

	fmt.Print(report.Render(rep))

	if code := exitCode(rep); code != exitClean {
		os.Exit(code)
	}
	return nil
}

// buildConfig resolves the effective configuration: defaults, then the
// config file and KULINT_* environment via viper, then CLI flags on top.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring invalid configuration: %v\n", err)
	}

	if storeURL != "" {
		cfg.Store.URL = storeURL
	}
	if collection != "" {
		cfg.Store.Collection = collection
	}
	if embProvider != "" {
		cfg.Embedding.Provider = embProvider
		// Switching providers invalidates the default model name
		switch embProvider {
		case "openai":
			cfg.Embedding.Model = "text-embedding-3-small"
		case "ollama":
			cfg.Embedding.Model = "all-minilm"
		}
	}
	if embModel != "" {
		cfg.Embedding.Model = embModel
	}
	if dupThreshold > 0 {
		cfg.Checks.DuplicateThreshold = dupThreshold
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Verbose = verbose

	// API keys come from the environment, never from flags
	if cfg.Embedding.Provider == "openai" && cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Embedding.Provider == "ollama" && cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	return cfg
}

// exitCode maps report severities to the CI exit-code convention
func exitCode(rep *model.Report) int {
	if len(rep.Issues) == 0 {
		return exitClean
	}
	if rep.HasFatal() {
		return exitFatal
	}
	return exitAdvisory
}
