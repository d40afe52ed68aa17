package cli

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetConfigState(t *testing.T) {
	t.Helper()
	viper.Reset()
	storeURL = ""
	collection = ""
	embProvider = ""
	embModel = ""
	dupThreshold = 0
	noCache = false
	t.Cleanup(func() {
		viper.Reset()
		storeURL = ""
		collection = ""
		embProvider = ""
		embModel = ""
		dupThreshold = 0
		noCache = false
	})
}

func TestBuildConfig_Defaults(t *testing.T) {
	resetConfigState(t)

	cfg := buildConfig()
	if cfg.Store.URL != "http://localhost:8000" {
		t.Errorf("Expected default store URL, got %s", cfg.Store.URL)
	}
	if cfg.Checks.DuplicateThreshold != 0.95 {
		t.Errorf("Expected default threshold 0.95, got %f", cfg.Checks.DuplicateThreshold)
	}
}

func TestBuildConfig_ViperValuesTakeEffect(t *testing.T) {
	resetConfigState(t)

	// Values as a config file would set them
	viper.Set("store.url", "http://chroma.internal:9000")
	viper.Set("store.collection", "chunks_v2")
	viper.Set("store.timeout", "15s")
	viper.Set("checks.duplicate_threshold", 0.9)
	viper.Set("batch.workers", 8)

	cfg := buildConfig()

	if cfg.Store.URL != "http://chroma.internal:9000" {
		t.Errorf("Expected configured store URL, got %s", cfg.Store.URL)
	}
	if cfg.Store.Collection != "chunks_v2" {
		t.Errorf("Expected configured collection, got %s", cfg.Store.Collection)
	}
	if cfg.Store.Timeout != 15*time.Second {
		t.Errorf("Expected 15s timeout, got %s", cfg.Store.Timeout)
	}
	if cfg.Checks.DuplicateThreshold != 0.9 {
		t.Errorf("Expected configured threshold 0.9, got %f", cfg.Checks.DuplicateThreshold)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.Batch.Workers)
	}
}

func TestBuildConfig_EnvValuesTakeEffect(t *testing.T) {
	resetConfigState(t)
	t.Setenv("KULINT_STORE_COLLECTION", "chunks_from_env")

	initViper()

	cfg := buildConfig()
	if cfg.Store.Collection != "chunks_from_env" {
		t.Errorf("Expected collection from environment, got %s", cfg.Store.Collection)
	}
}

func TestBuildConfig_FlagsWinOverViper(t *testing.T) {
	resetConfigState(t)

	viper.Set("store.url", "http://from-config:9000")
	storeURL = "http://from-flag:9001"

	cfg := buildConfig()
	if cfg.Store.URL != "http://from-flag:9001" {
		t.Errorf("Expected flag to win over config value, got %s", cfg.Store.URL)
	}
}

func TestBuildConfig_ProviderSwitchResetsModel(t *testing.T) {
	resetConfigState(t)

	embProvider = "openai"

	cfg := buildConfig()
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("Expected provider default model, got %s", cfg.Embedding.Model)
	}

	embModel = "text-embedding-3-large"
	cfg = buildConfig()
	if cfg.Embedding.Model != "text-embedding-3-large" {
		t.Errorf("Expected explicit model to win, got %s", cfg.Embedding.Model)
	}
}
