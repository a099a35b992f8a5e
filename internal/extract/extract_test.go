package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hurttlocker/chatsift/internal/transcript"
)

// mockRule implements Rule for registry tests.
type mockRule struct {
	name        string
	description string
	candidates  []Candidate
}

func (m *mockRule) Name() string        { return m.name }
func (m *mockRule) Description() string { return m.description }
func (m *mockRule) Extract(messages []transcript.Message) []Candidate {
	return m.candidates
}

func TestRegistryBasics(t *testing.T) {
	reg := NewRegistry()

	// Empty registry
	if names := reg.List(); len(names) != 0 {
		t.Fatalf("expected empty registry, got %v", names)
	}

	// Register rules
	reg.Register(&mockRule{name: "urls", description: "URLs"})
	reg.Register(&mockRule{name: "actions", description: "Actions"})

	// List is sorted
	names := reg.List()
	if len(names) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(names))
	}
	if names[0] != "actions" || names[1] != "urls" {
		t.Fatalf("expected [actions urls], got %v", names)
	}

	// Get existing
	rule := reg.Get("actions")
	if rule == nil {
		t.Fatal("expected actions rule")
	}
	if rule.Description() != "Actions" {
		t.Fatalf("expected description Actions, got %s", rule.Description())
	}

	// Get non-existing
	if rule := reg.Get("facts"); rule != nil {
		t.Fatal("expected nil for unregistered rule")
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{name: "urls"})

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	reg.Register(&mockRule{name: "urls"})
}

func TestRegistryRulesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{name: "b"})
	reg.Register(&mockRule{name: "a"})
	reg.Register(&mockRule{name: "c"})

	rules := reg.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	if rules[0].Name() != "a" || rules[1].Name() != "b" || rules[2].Name() != "c" {
		t.Fatalf("rules not sorted: %s, %s, %s", rules[0].Name(), rules[1].Name(), rules[2].Name())
	}
}

func TestCategories_BuiltIns(t *testing.T) {
	want := []string{
		"actions", "assignments", "checkins", "deadlines",
		"decisions", "meetings", "questions", "urls",
	}

	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtract_UnknownCategory(t *testing.T) {
	e := New(nil)

	_, err := e.Extract("sentiment")
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if !strings.Contains(err.Error(), `unknown category "sentiment"`) {
		t.Errorf("error should name the category, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "valid: actions, assignments, checkins") {
		t.Errorf("error should list valid categories, got %q", err.Error())
	}
}

func TestExtract_EmptyTranscript(t *testing.T) {
	e := New(nil)

	for _, category := range Categories() {
		candidates, err := e.Extract(category)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", category, err)
		}
		if len(candidates) != 0 {
			t.Errorf("%s: expected no candidates, got %d", category, len(candidates))
		}
	}
}

func TestExtract_UsesRegisteredRule(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockRule{
		name:       "actions",
		candidates: []Candidate{{Category: "actions", Sender: "Dana"}},
	})

	e := NewWithRegistry(nil, reg)
	candidates, err := e.Extract("actions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Sender != "Dana" {
		t.Errorf("expected sender Dana, got %q", candidates[0].Sender)
	}
}

func TestCandidateJSON_OmitsUnsetFields(t *testing.T) {
	c := Candidate{
		Category:       "actions",
		Sender:         "Dana",
		Date:           "01/02/2024",
		Time:           "09:15:00",
		Content:        "Please review",
		MatchedPattern: `\b(can you|could you|please|need to|have to|should|must)\b`,
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("failed to marshal candidate: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"matched_pattern"`) {
		t.Error("expected matched_pattern in JSON")
	}
	for _, absent := range []string{`"url"`, `"score"`, `"mentions"`, `"context_before"`} {
		if strings.Contains(s, absent) {
			t.Errorf("expected %s to be omitted, got %s", absent, s)
		}
	}
}
