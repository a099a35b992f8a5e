// scale_test.go — Scale testing for parsing and extraction with
// synthetic transcripts.
// Run: go test ./scripts/bench/ -run TestScale -v -timeout 10m
//
// Generates transcripts at 1K, 10K, and 50K messages, then measures
// parse throughput and per-category extraction latency at each tier.
package main

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/transcript"
)

// ScaleTier defines a test tier.
type ScaleTier struct {
	Name     string `json:"name"`
	Messages int    `json:"messages"`
}

// ScaleResult stores benchmark results for a tier.
type ScaleResult struct {
	Tier          string             `json:"tier"`
	InputBytes    int                `json:"input_bytes"`
	Messages      int                `json:"messages"`
	ParseMs       float64            `json:"parse_ms"`
	ParsePerSec   float64            `json:"parse_msgs_per_sec"`
	ExtractMs     map[string]float64 `json:"extract_ms"`
	CandidateRate map[string]float64 `json:"candidate_rate_pct"`
}

var tiers = []ScaleTier{
	{"small", 1000},
	{"medium", 10000},
	{"large", 50000},
}

func TestScale(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping scale test in -short mode")
	}

	for _, tier := range tiers {
		tier := tier
		t.Run(tier.Name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			text := syntheticTranscript(rng, tier.Messages)

			start := time.Now()
			messages := transcript.ParseString(text)
			parseMs := float64(time.Since(start).Microseconds()) / 1000.0

			// Every marker line becomes exactly one message; continuation
			// lines never do.
			markers := 0
			for _, line := range strings.Split(text, "\n") {
				if strings.HasPrefix(line, "[") {
					markers++
				}
			}
			if len(messages) != markers {
				t.Fatalf("Parsed %d messages from %d marker lines", len(messages), markers)
			}

			result := ScaleResult{
				Tier:          tier.Name,
				InputBytes:    len(text),
				Messages:      len(messages),
				ParseMs:       parseMs,
				ExtractMs:     map[string]float64{},
				CandidateRate: map[string]float64{},
			}
			if parseMs > 0 {
				result.ParsePerSec = float64(len(messages)) / (parseMs / 1000.0)
			}

			ex := extract.New(messages)
			for _, category := range extract.Categories() {
				start := time.Now()
				candidates, err := ex.Extract(category)
				elapsed := float64(time.Since(start).Microseconds()) / 1000.0
				if err != nil {
					t.Fatalf("Extract(%s): %v", category, err)
				}

				result.ExtractMs[category] = elapsed
				result.CandidateRate[category] = float64(len(candidates)) / float64(len(messages)) * 100

				// The synthetic phrase pool trips every category; zero
				// candidates at scale means a rule set broke.
				if len(candidates) == 0 {
					t.Errorf("Extract(%s) found nothing in %d synthetic messages", category, len(messages))
				}
			}

			data, _ := json.MarshalIndent(result, "", "  ")
			t.Logf("Tier %s:\n%s", tier.Name, data)
		})
	}
}
