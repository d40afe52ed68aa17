package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kulint/kulint/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kulint",
	Short: "kulint - Knowledge corpus consistency verification",
	Long: `kulint validates the internal integrity of a derived knowledge corpus:
a set of atomic claims (knowledge units), each citing source document
chunks embedded into a vector store.

It checks that every cited chunk resolves, that cited pages fall inside
the chunk's recorded extent, that no two claims are semantic
near-duplicates, and that declared confidence levels match the
source-count heuristic.

kulint never mutates the corpus or the store: it only classifies and
reports. Mapping severities to pass/fail belongs to the CI wrapper.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for kulint.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("kulint v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.kulint/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.kulint")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	initViper()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// initViper wires environment binding and registers defaults for every
// configuration key, so KULINT_* variables resolve even when neither the
// config file nor a flag mentions the key.
func initViper() {
	viper.SetEnvPrefix("KULINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	def := model.DefaultConfig()
	viper.SetDefault("store.url", def.Store.URL)
	viper.SetDefault("store.collection", def.Store.Collection)
	viper.SetDefault("store.timeout", def.Store.Timeout)
	viper.SetDefault("store.requests_per_second", def.Store.RequestsPerSecond)
	viper.SetDefault("embedding.provider", def.Embedding.Provider)
	viper.SetDefault("embedding.model", def.Embedding.Model)
	viper.SetDefault("embedding.dimensions", def.Embedding.Dimensions)
	viper.SetDefault("embedding.timeout", def.Embedding.Timeout)
	viper.SetDefault("embedding.requests_per_second", def.Embedding.RequestsPerSecond)
	viper.SetDefault("checks.duplicate_threshold", def.Checks.DuplicateThreshold)
	viper.SetDefault("checks.max_duplicate_corpus", def.Checks.MaxDuplicateCorpus)
	viper.SetDefault("cache.enabled", def.Cache.Enabled)
	viper.SetDefault("cache.dir", def.Cache.Dir)
	viper.SetDefault("cache.ttl", def.Cache.TTL)
	viper.SetDefault("batch.workers", def.Batch.Workers)
}
