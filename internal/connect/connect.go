// Package connect provides the transcript source framework.
//
// Sources are integrations that pull exported chat transcripts from
// somewhere else (Google Drive, a local folder) so they can be fed to
// the analyzer without manual copying.
package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Provider defines the interface that all transcript sources implement.
// Each provider handles authentication and fetching for one service.
type Provider interface {
	// Name returns the unique provider identifier (e.g., "gdrive").
	Name() string

	// DisplayName returns a human-readable name (e.g., "Google Drive").
	DisplayName() string

	// ValidateConfig checks whether the provided JSON config is valid.
	// Returns nil if config is valid, error with actionable message otherwise.
	ValidateConfig(config json.RawMessage) error

	// DefaultConfig returns a template config with placeholder values
	// that users can fill in. Used by `chatsift fetch`.
	DefaultConfig() json.RawMessage

	// Fetch retrieves transcript documents from the source.
	Fetch(ctx context.Context, config json.RawMessage) ([]Document, error)
}

// Document is one transcript fetched from a source.
type Document struct {
	// ID is a source-specific identifier (Drive file ID, relative path).
	ID string `json:"id"`

	// Name is the document's display name, usually a filename.
	Name string `json:"name"`

	// MimeType is the source-reported type, when known.
	MimeType string `json:"mime_type,omitempty"`

	// Content is the transcript text.
	Content string `json:"content,omitempty"`

	// Modified is when the source last changed the document.
	Modified time.Time `json:"modified,omitempty"`
}

// Kind returns a human-readable file type for the document.
func (d Document) Kind() string {
	return friendlyMimeType(d.MimeType)
}

// Registry holds all registered providers. Thread-safe.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry. Panics on duplicate names.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; exists {
		panic(fmt.Sprintf("connect: duplicate provider registration: %s", name))
	}
	r.providers[name] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Providers returns all registered providers as a name→provider map.
func (r *Registry) Providers() map[string]Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]Provider, len(r.providers))
	for k, v := range r.providers {
		result[k] = v
	}
	return result
}

// DefaultRegistry is the global provider registry.
// Providers register themselves during init() or explicit setup.
var DefaultRegistry = NewRegistry()

// friendlyMimeType returns a human-readable name for common mime types.
func friendlyMimeType(mimeType string) string {
	switch mimeType {
	case "application/vnd.google-apps.document":
		return "Google Doc"
	case "application/vnd.google-apps.spreadsheet":
		return "Google Sheet"
	case "application/vnd.google-apps.presentation":
		return "Google Slides"
	case "application/vnd.google-apps.folder":
		return "Folder"
	case "application/pdf":
		return "PDF"
	case "text/plain":
		return "Text"
	case "text/markdown":
		return "Markdown"
	case "application/json":
		return "JSON"
	case "":
		return "Unknown"
	default:
		return mimeType
	}
}
