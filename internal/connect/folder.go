package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FolderProvider reads exported transcripts from a local directory.
// Useful when chat exports land in Downloads or a synced folder.
type FolderProvider struct{}

// FolderConfig holds local folder settings.
type FolderConfig struct {
	// Path is the directory containing .txt transcript exports.
	Path string `json:"path"`

	// Recursive also scans subdirectories when true.
	Recursive bool `json:"recursive,omitempty"`

	// MaxFileSize skips files larger than this many bytes (default 16MB).
	MaxFileSize int64 `json:"max_file_size,omitempty"`
}

func init() {
	DefaultRegistry.Register(&FolderProvider{})
}

func (p *FolderProvider) Name() string        { return "folder" }
func (p *FolderProvider) DisplayName() string { return "Local Folder" }

func (p *FolderProvider) DefaultConfig() json.RawMessage {
	return json.RawMessage(`{
  "path": "~/Downloads/chats",
  "recursive": false,
  "max_file_size": 16777216
}`)
}

func (p *FolderProvider) ValidateConfig(config json.RawMessage) error {
	var cfg FolderConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return fmt.Errorf("invalid config JSON: %w", err)
	}
	if cfg.Path == "" {
		return fmt.Errorf("path is required")
	}
	path := expandHome(cfg.Path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access path %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", path)
	}
	return nil
}

// Fetch walks the configured directory and returns every .txt file found.
func (p *FolderProvider) Fetch(ctx context.Context, config json.RawMessage) ([]Document, error) {
	var cfg FolderConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	root := expandHome(cfg.Path)
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = maxTranscriptBytes
	}

	var docs []Document
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if !cfg.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable files
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, Document{
			ID:       rel,
			Name:     filepath.Base(path),
			MimeType: txtMimeType,
			Content:  string(content),
			Modified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return docs, nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[1:])
}
