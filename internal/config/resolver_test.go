package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"OPENROUTER_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(env, "")
	}
}

func TestResolveConfig_Precedence_ConfigEnvCLI(t *testing.T) {
	clearKeyEnv(t)
	cfgPath := writeConfig(t, `llm:
  provider: openrouter/anthropic/claude-3.5-haiku
  chunk_size: 40
web:
  listen: ":9090"
days_back: 14
`)

	t.Setenv("CHATSIFT_LLM", "google/gemini-2.5-flash")
	t.Setenv("CHATSIFT_DAYS_BACK", "7")

	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: cfgPath,
		CLILLM:     "openrouter/meta-llama/llama-3.3-70b",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}

	if resolved.LLM.Source != SourceCLI {
		t.Fatalf("expected llm source cli, got %s", resolved.LLM.Source)
	}
	if resolved.LLM.Value != "openrouter/meta-llama/llama-3.3-70b" {
		t.Fatalf("unexpected llm value: %q", resolved.LLM.Value)
	}
	if resolved.DaysBack.Source != SourceEnv || resolved.DaysBack.Value != "7" {
		t.Fatalf("expected days_back from env, got %+v", resolved.DaysBack)
	}
	if resolved.ChunkSize.Source != SourceConfig || resolved.ChunkSize.Value != "40" {
		t.Fatalf("expected chunk_size from config, got %+v", resolved.ChunkSize)
	}
	if resolved.Listen.Source != SourceConfig || resolved.Listen.Value != ":9090" {
		t.Fatalf("expected listen from config, got %+v", resolved.Listen)
	}
	if resolved.ArtifactDir.Value != "" {
		t.Fatalf("artifact dir should be unset, got %+v", resolved.ArtifactDir)
	}
}

func TestResolveConfig_MissingFileIsFine(t *testing.T) {
	clearKeyEnv(t)
	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: filepath.Join(t.TempDir(), "nope.yaml"),
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	if resolved.LLM.Value != "" || resolved.ChunkSize.Value != "" {
		t.Fatalf("expected empty resolution, got %+v", resolved)
	}
}

func TestResolveConfig_BadYAML(t *testing.T) {
	cfgPath := writeConfig(t, "llm: [oops\n")
	_, err := ResolveConfig(ResolveOptions{ConfigPath: cfgPath})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveConfig_ArtifactDirExpansion(t *testing.T) {
	clearKeyEnv(t)
	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath:     filepath.Join(t.TempDir(), "nope.yaml"),
		CLIArtifactDir: "~/artifacts",
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	home, _ := os.UserHomeDir()
	if resolved.ArtifactDir.Value != filepath.Join(home, "artifacts") {
		t.Fatalf("expected expanded path, got %q", resolved.ArtifactDir.Value)
	}
}

func TestAPIKeyForProvider_EnvOverridesConfig(t *testing.T) {
	clearKeyEnv(t)
	cfgPath := writeConfig(t, `llm:
  provider: openrouter/anthropic/claude-3.5-haiku
  api_key: config-key
`)
	t.Setenv("OPENROUTER_API_KEY", "env-key")

	resolved, err := ResolveConfig(ResolveOptions{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	k := resolved.APIKeyForProvider("openrouter/some-model")
	if k.Value != "env-key" {
		t.Fatalf("expected env key, got %q", k.Value)
	}
	if k.Source != SourceEnv {
		t.Fatalf("expected source env, got %s", k.Source)
	}
}

func TestAPIKeyForProvider_GeminiBeatsGoogle(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath: filepath.Join(t.TempDir(), "nope.yaml"),
	})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	k := resolved.APIKeyForProvider("google/gemini-2.5-flash")
	if k.Value != "gemini-key" || k.From != "GEMINI_API_KEY" {
		t.Fatalf("expected GEMINI_API_KEY to win, got %+v", k)
	}
}

func TestAPIKeyForProvider_DefaultFallback(t *testing.T) {
	clearKeyEnv(t)
	cfgPath := writeConfig(t, `llm:
  api_key: shared-key
`)

	resolved, err := ResolveConfig(ResolveOptions{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("ResolveConfig: %v", err)
	}
	k := resolved.APIKeyForProvider("openrouter")
	if k.Value != "shared-key" || k.Source != SourceConfig {
		t.Fatalf("expected config default key, got %+v", k)
	}
}

func TestEffective(t *testing.T) {
	set := ResolvedValue{Value: ":8080", Source: SourceEnv, From: "CHATSIFT_LISTEN"}
	if got := Effective(set, ":9999"); got.Value != ":8080" || got.Source != SourceEnv {
		t.Fatalf("set value should win: %+v", got)
	}
	if got := Effective(ResolvedValue{}, ":9999"); got.Value != ":9999" || got.Source != SourceDefault {
		t.Fatalf("fallback should apply: %+v", got)
	}
	if got := Effective(ResolvedValue{}, ""); got.Value != "" || got.Source != ValueSource("") {
		t.Fatalf("empty fallback should stay zero: %+v", got)
	}
}

func TestEffectiveInt(t *testing.T) {
	if got := EffectiveInt(ResolvedValue{Value: "25"}, 30); got != 25 {
		t.Fatalf("EffectiveInt(25) = %d", got)
	}
	if got := EffectiveInt(ResolvedValue{}, 30); got != 30 {
		t.Fatalf("EffectiveInt(unset) = %d", got)
	}
	if got := EffectiveInt(ResolvedValue{Value: "zero"}, 30); got != 30 {
		t.Fatalf("EffectiveInt(junk) = %d", got)
	}
	if got := EffectiveInt(ResolvedValue{Value: "-3"}, 30); got != 30 {
		t.Fatalf("EffectiveInt(negative) = %d", got)
	}
}

func TestDefaultConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("CHATSIFT_CONFIG", "~/custom/chatsift.yaml")
	home, _ := os.UserHomeDir()
	if got := DefaultConfigPath(); got != filepath.Join(home, "custom", "chatsift.yaml") {
		t.Fatalf("DefaultConfigPath() = %q", got)
	}

	t.Setenv("CHATSIFT_CONFIG", "")
	if got := DefaultConfigPath(); got != filepath.Join(home, ".chatsift", "config.yaml") {
		t.Fatalf("DefaultConfigPath() = %q", got)
	}
}
