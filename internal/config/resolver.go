// Package config resolves settings from the config file, environment
// and CLI flags, keeping track of where each value came from so the
// config command can show the full resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath     string
	CLILLM         string
	CLIChunkSize   string
	CLIListen      string
	CLIArtifactDir string
	CLIDaysBack    string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	LLM         ResolvedValue `json:"llm"`
	ChunkSize   ResolvedValue `json:"chunk_size"`
	Listen      ResolvedValue `json:"listen"`
	ArtifactDir ResolvedValue `json:"artifact_dir"`
	DaysBack    ResolvedValue `json:"days_back"`

	LLMKeys map[string]ResolvedValue `json:"llm_keys,omitempty"`
}

type fileConfig struct {
	LLM struct {
		Provider  string `yaml:"provider"`
		APIKey    string `yaml:"api_key"`
		ChunkSize int    `yaml:"chunk_size"`
	} `yaml:"llm"`
	Web struct {
		Listen      string `yaml:"listen"`
		ArtifactDir string `yaml:"artifact_dir"`
	} `yaml:"web"`
	DaysBack int `yaml:"days_back"`
}

func DefaultConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("CHATSIFT_CONFIG")); p != "" {
		return expandUserPath(p)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatsift", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath: path,
		LLMKeys:    map[string]ResolvedValue{},
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.LLM, cfg.LLM.Provider, SourceConfig, path)
		if cfg.LLM.ChunkSize > 0 {
			apply(&out.ChunkSize, strconv.Itoa(cfg.LLM.ChunkSize), SourceConfig, path)
		}
		apply(&out.Listen, cfg.Web.Listen, SourceConfig, path)
		apply(&out.ArtifactDir, cfg.Web.ArtifactDir, SourceConfig, path)
		if cfg.DaysBack > 0 {
			apply(&out.DaysBack, strconv.Itoa(cfg.DaysBack), SourceConfig, path)
		}

		if key := strings.TrimSpace(cfg.LLM.APIKey); key != "" {
			provider := providerOf(cfg.LLM.Provider)
			if provider == "" {
				provider = "default"
			}
			out.LLMKeys[provider] = ResolvedValue{Value: key, Source: SourceConfig, From: path}
		}
	}

	applyEnv(&out.LLM, "CHATSIFT_LLM")
	applyEnv(&out.ChunkSize, "CHATSIFT_CHUNK_SIZE")
	applyEnv(&out.Listen, "CHATSIFT_LISTEN")
	applyEnv(&out.ArtifactDir, "CHATSIFT_ARTIFACT_DIR")
	applyEnv(&out.DaysBack, "CHATSIFT_DAYS_BACK")

	if v := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")); v != "" {
		out.LLMKeys["openrouter"] = ResolvedValue{Value: v, Source: SourceEnv, From: "OPENROUTER_API_KEY"}
	}
	// GEMINI_API_KEY wins over GOOGLE_API_KEY, matching the provider
	// lookup order.
	if v := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); v != "" {
		out.LLMKeys["google"] = ResolvedValue{Value: v, Source: SourceEnv, From: "GOOGLE_API_KEY"}
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		out.LLMKeys["google"] = ResolvedValue{Value: v, Source: SourceEnv, From: "GEMINI_API_KEY"}
	}

	apply(&out.LLM, opts.CLILLM, SourceCLI, "--llm")
	apply(&out.ChunkSize, opts.CLIChunkSize, SourceCLI, "--chunk-size")
	apply(&out.Listen, opts.CLIListen, SourceCLI, "--listen")
	apply(&out.ArtifactDir, opts.CLIArtifactDir, SourceCLI, "--artifact-dir")
	apply(&out.DaysBack, opts.CLIDaysBack, SourceCLI, "--days")

	if out.ArtifactDir.Value != "" {
		out.ArtifactDir.Value = expandUserPath(out.ArtifactDir.Value)
	}

	return out, nil
}

// Effective returns v when set, otherwise the fallback marked as a
// built-in default.
func Effective(v ResolvedValue, fallback string) ResolvedValue {
	if strings.TrimSpace(v.Value) != "" {
		return v
	}
	if fallback == "" {
		return ResolvedValue{}
	}
	return ResolvedValue{Value: fallback, Source: SourceDefault, From: "built-in default"}
}

// EffectiveInt parses v as a positive integer, falling back when
// unset or unparseable.
func EffectiveInt(v ResolvedValue, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(v.Value)); err == nil && n > 0 {
		return n
	}
	return fallback
}

// APIKeyForProvider picks the key for a provider or provider/model
// string, falling back to a "default" key from the config file.
func (r ResolvedConfig) APIKeyForProvider(providerOrModel string) ResolvedValue {
	provider := providerOf(providerOrModel)
	if provider == "" {
		return ResolvedValue{}
	}
	if v, ok := r.LLMKeys[provider]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	if v, ok := r.LLMKeys["default"]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	return ResolvedValue{}
}

func providerOf(providerOrModel string) string {
	v := strings.ToLower(strings.TrimSpace(providerOrModel))
	if v == "" {
		return ""
	}
	if idx := strings.Index(v, "/"); idx > 0 {
		return v[:idx]
	}
	return v
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
