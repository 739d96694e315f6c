package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRetrievalDefaults(t *testing.T) {
	t.Setenv("RAG_RETRIEVAL_MODE", "")
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("RAG_CANDIDATE_LIMIT", "")
	t.Setenv("RAG_CONTEXT_CHAR_BUDGET", "")

	cfg := Load()
	if cfg.RAGRetrievalMode != "hybrid" {
		t.Fatalf("expected default retrieval mode hybrid, got %q", cfg.RAGRetrievalMode)
	}
	if cfg.RAGTopK != 5 {
		t.Fatalf("expected default top k 5, got %d", cfg.RAGTopK)
	}
	if cfg.RAGCandidateLimit != 30 {
		t.Fatalf("expected default candidate limit 30, got %d", cfg.RAGCandidateLimit)
	}
	if cfg.ContextCharBudget != 6000 {
		t.Fatalf("expected default context budget 6000, got %d", cfg.ContextCharBudget)
	}
}

func TestLoadParsesRetrievalOverrides(t *testing.T) {
	t.Setenv("RAG_RETRIEVAL_MODE", "semantic")
	t.Setenv("RAG_TOP_K", "8")
	t.Setenv("RAG_CANDIDATE_LIMIT", "50")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")

	cfg := Load()
	if cfg.RAGRetrievalMode != "semantic" {
		t.Fatalf("expected retrieval mode override, got %q", cfg.RAGRetrievalMode)
	}
	if cfg.RAGTopK != 8 {
		t.Fatalf("expected top k 8, got %d", cfg.RAGTopK)
	}
	if cfg.RAGCandidateLimit != 50 {
		t.Fatalf("expected candidate limit 50, got %d", cfg.RAGCandidateLimit)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5 rps, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RAG_TOP_K", "not-a-number")
	cfg := Load()
	if cfg.RAGTopK != 5 {
		t.Fatalf("malformed value should fall back to default, got %d", cfg.RAGTopK)
	}
}

func TestLoadTuningOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := []byte("similarity_threshold: 0.25\nkeyword_only_boost: 0.3\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write tuning file: %v", err)
	}

	var tuning struct {
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		KeywordOnlyBoost    float64 `yaml:"keyword_only_boost"`
	}
	if err := LoadTuningOverride(path, &tuning); err != nil {
		t.Fatalf("LoadTuningOverride() error = %v", err)
	}
	if tuning.SimilarityThreshold != 0.25 || tuning.KeywordOnlyBoost != 0.3 {
		t.Fatalf("unexpected tuning: %+v", tuning)
	}
}

func TestLoadTuningOverrideMissingFileFails(t *testing.T) {
	var tuning struct{}
	if err := LoadTuningOverride("/does/not/exist.yaml", &tuning); err == nil {
		t.Fatal("expected error for missing tuning file")
	}
}

func TestLoadTuningOverrideEmptyPathIsNoop(t *testing.T) {
	var tuning struct{}
	if err := LoadTuningOverride("", &tuning); err != nil {
		t.Fatalf("empty path should be a no-op, got %v", err)
	}
}
