package connect

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// mockProvider implements Provider for testing.
type mockProvider struct {
	name        string
	displayName string
	docs        []Document
	fetchErr    error
}

func (m *mockProvider) Name() string        { return m.name }
func (m *mockProvider) DisplayName() string { return m.displayName }

func (m *mockProvider) ValidateConfig(config json.RawMessage) error {
	var cfg map[string]any
	return json.Unmarshal(config, &cfg)
}

func (m *mockProvider) DefaultConfig() json.RawMessage {
	return json.RawMessage(`{}`)
}

func (m *mockProvider) Fetch(ctx context.Context, config json.RawMessage) ([]Document, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.docs, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := &mockProvider{name: "mock", displayName: "Mock Source"}
	r.Register(p)

	got := r.Get("mock")
	if got == nil {
		t.Fatal("Get returned nil for registered provider")
	}
	if got.Name() != "mock" {
		t.Errorf("Name() = %q, want %q", got.Name(), "mock")
	}
	if got.DisplayName() != "Mock Source" {
		t.Errorf("DisplayName() = %q, want %q", got.DisplayName(), "Mock Source")
	}
}

func TestRegistryGetMissing(t *testing.T) {
	r := NewRegistry()
	if got := r.Get("nope"); got != nil {
		t.Errorf("Get for unregistered name = %v, want nil", got)
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{name: "dup"})

	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic on duplicate registration")
		}
		msg, ok := rec.(string)
		if !ok || !strings.Contains(msg, "duplicate provider registration: dup") {
			t.Errorf("panic message = %v, want duplicate registration message", rec)
		}
	}()
	r.Register(&mockProvider{name: "dup"})
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{name: "zebra"})
	r.Register(&mockProvider{name: "alpha"})
	r.Register(&mockProvider{name: "mango"})

	got := r.List()
	want := []string{"alpha", "mango", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("List() returned %d names, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistryProvidersCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{name: "one"})

	m := r.Providers()
	delete(m, "one")

	if r.Get("one") == nil {
		t.Error("mutating Providers() map affected registry")
	}
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	for _, name := range []string{"gdrive", "folder"} {
		if DefaultRegistry.Get(name) == nil {
			t.Errorf("DefaultRegistry missing built-in provider %q", name)
		}
	}
}

func TestDocumentKind(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"application/vnd.google-apps.document", "Google Doc"},
		{"application/vnd.google-apps.spreadsheet", "Google Sheet"},
		{"application/pdf", "PDF"},
		{"text/plain", "Text"},
		{"", "Unknown"},
		{"application/x-custom", "application/x-custom"},
	}
	for _, tt := range tests {
		d := Document{MimeType: tt.mimeType}
		if got := d.Kind(); got != tt.want {
			t.Errorf("Kind() for %q = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}
