// Package extract scans parsed transcript messages for candidate records.
//
// Each category (actions, urls, decisions, ...) is an independent rule
// registered in a shared registry. Rules are ordered regex lists over
// message content: any single match qualifies a message, and the first
// matching pattern rides along as a diagnostic. Extraction deliberately
// over-captures; the refine package handles precision.
package extract

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hurttlocker/chatsift/internal/transcript"
)

// ContextMessage is a neighboring message attached to URL candidates so
// downstream consumers can see why a link was shared.
type ContextMessage struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

// Candidate is one extracted record. Category-specific fields are
// populated only by their category's rule.
type Candidate struct {
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Content   string `json:"content"`

	// Source text of the first rule pattern that matched, for rule-set
	// debugging. Not all rules record it.
	MatchedPattern string `json:"matched_pattern,omitempty"`

	// URL candidates.
	URL           string           `json:"url,omitempty"`
	Description   string           `json:"description,omitempty"`
	FullMessage   string           `json:"full_message,omitempty"`
	ContextBefore []ContextMessage `json:"context_before,omitempty"`
	ContextAfter  []ContextMessage `json:"context_after,omitempty"`

	// Assignment candidates.
	Mentions    []string `json:"mentions,omitempty"`
	Assignments []string `json:"assignments,omitempty"`

	// Check-in candidates.
	Score string `json:"score,omitempty"`
}

// Rule extracts candidates of a single category from a transcript.
type Rule interface {
	// Name returns the category identifier (e.g. "actions").
	Name() string

	// Description returns a one-line human-readable summary.
	Description() string

	// Extract scans the messages and returns candidates in input order.
	Extract(messages []transcript.Message) []Candidate
}

// Registry holds category rules. Thread-safe.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule to the registry. Panics on duplicate names.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := rule.Name()
	if _, exists := r.rules[name]; exists {
		panic(fmt.Sprintf("extract: duplicate rule registration: %s", name))
	}
	r.rules[name] = rule
}

// Get returns a rule by category name, or nil if not found.
func (r *Registry) Get(name string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[name]
}

// List returns all registered category names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rules returns all registered rules, sorted by name.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		rules = append(rules, r.rules[name])
	}
	return rules
}

// DefaultRegistry is the global rule registry. The built-in categories
// register themselves during init().
var DefaultRegistry = NewRegistry()

// Categories returns the category names known to the default registry.
func Categories() []string {
	return DefaultRegistry.List()
}

// Extractor runs category rules over one parsed transcript.
type Extractor struct {
	messages []transcript.Message
	registry *Registry
}

// New creates an extractor over messages using the default registry.
func New(messages []transcript.Message) *Extractor {
	return NewWithRegistry(messages, DefaultRegistry)
}

// NewWithRegistry creates an extractor with an explicit registry.
func NewWithRegistry(messages []transcript.Message, registry *Registry) *Extractor {
	return &Extractor{messages: messages, registry: registry}
}

// Extract returns candidates for the named category. An unknown
// category is an error naming the valid set; an empty transcript yields
// an empty result, never an error.
func (e *Extractor) Extract(category string) ([]Candidate, error) {
	rule := e.registry.Get(category)
	if rule == nil {
		return nil, fmt.Errorf("unknown category %q (valid: %s)", category, strings.Join(e.registry.List(), ", "))
	}
	return rule.Extract(e.messages), nil
}
