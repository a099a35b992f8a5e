// transcript_noise — audit how noisy a category's rule patterns are on a
// real transcript.
// Run: go run ./scripts/transcript_noise --file chat.txt [--category actions]
//
// Pattern extraction deliberately over-captures (the LLM refinement pass
// is the precision layer), but some patterns are broader than others.
// This audit buckets candidates by the pattern that matched them, flags
// the broad ones, and prints samples so the rule tables can be tuned
// with data instead of vibes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/transcript"
)

// Patterns known to over-capture: bare future intent and generic work
// verbs match a large share of ordinary conversation.
var broadPatterns = map[string]bool{
	`\b(will|going to|planning to|need to)\b`:                                  true,
	`\b(create|make|build|develop|design|write|research|investigate|review)\b`: true,
	`\b(today|tomorrow|next week|this week)\b`:                                 true,
}

type patternBucket struct {
	Pattern string   `json:"pattern"`
	Count   int      `json:"count"`
	Pct     float64  `json:"pct_of_candidates"`
	Broad   bool     `json:"broad"`
	Samples []string `json:"samples,omitempty"`
}

type report struct {
	File          string          `json:"file"`
	Category      string          `json:"category"`
	GeneratedAt   time.Time       `json:"generated_at"`
	Messages      int             `json:"messages"`
	Candidates    int             `json:"candidates"`
	MatchRatePct  float64         `json:"match_rate_pct"`
	BroadOnly     int             `json:"broad_only_candidates"`
	BroadOnlyPct  float64         `json:"broad_only_pct"`
	Buckets       []patternBucket `json:"buckets"`
	Unmatched     int             `json:"candidates_without_pattern"`
	SampleLimit   int             `json:"sample_limit"`
	RecallWarning string          `json:"recall_warning,omitempty"`
}

func main() {
	file := flag.String("file", "", "Transcript file to audit")
	category := flag.String("category", "actions", "Extraction category")
	samples := flag.Int("samples", 3, "Sample candidates to keep per broad pattern")
	days := flag.Int("days", 0, "Only audit the last N days of chat")
	jsonOut := flag.Bool("json", false, "Emit the full report as JSON")
	outFile := flag.String("out", "", "Write JSON report to a file")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: transcript_noise --file chat.txt [--category actions] [--days N] [--json]")
		os.Exit(2)
	}

	messages, err := transcript.ParseFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *days > 0 {
		messages = transcript.FilterDays(messages, *days)
	}

	candidates, err := extract.New(messages).Extract(*category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	rep := buildReport(*file, *category, messages, candidates, *samples)

	if *outFile != "" {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outFile, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outFile)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printReport(rep)
}

func buildReport(file, category string, messages []transcript.Message, candidates []extract.Candidate, sampleLimit int) report {
	buckets := make(map[string]*patternBucket)
	broadOnly := 0
	unmatched := 0

	for _, c := range candidates {
		key := c.MatchedPattern
		if key == "" {
			unmatched++
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &patternBucket{Pattern: key, Broad: broadPatterns[key]}
			buckets[key] = b
		}
		b.Count++
		if b.Broad {
			// First-match-wins means a broad bucket only holds messages
			// no earlier (sharper) pattern claimed.
			broadOnly++
			if len(b.Samples) < sampleLimit {
				b.Samples = append(b.Samples, excerpt(c.Content, 120))
			}
		}
	}

	ordered := make([]patternBucket, 0, len(buckets))
	for _, b := range buckets {
		if len(candidates) > 0 {
			b.Pct = float64(b.Count) / float64(len(candidates)) * 100
		}
		ordered = append(ordered, *b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Count != ordered[j].Count {
			return ordered[i].Count > ordered[j].Count
		}
		return ordered[i].Pattern < ordered[j].Pattern
	})

	rep := report{
		File:        file,
		Category:    category,
		GeneratedAt: time.Now().UTC(),
		Messages:    len(messages),
		Candidates:  len(candidates),
		BroadOnly:   broadOnly,
		Buckets:     ordered,
		Unmatched:   unmatched,
		SampleLimit: sampleLimit,
	}
	if len(messages) > 0 {
		rep.MatchRatePct = float64(len(candidates)) / float64(len(messages)) * 100
	}
	if len(candidates) > 0 {
		rep.BroadOnlyPct = float64(broadOnly) / float64(len(candidates)) * 100
	}
	if rep.MatchRatePct > 80 {
		rep.RecallWarning = "match rate above 80% — the rule set is barely filtering on this transcript"
	}
	return rep
}

func printReport(rep report) {
	fmt.Printf("Transcript: %s\n", rep.File)
	fmt.Printf("Category:   %s\n", rep.Category)
	fmt.Printf("Messages:   %d\n", rep.Messages)
	fmt.Printf("Candidates: %d (%.1f%% match rate)\n", rep.Candidates, rep.MatchRatePct)
	fmt.Printf("Broad-only: %d (%.1f%% of candidates)\n", rep.BroadOnly, rep.BroadOnlyPct)
	if rep.Unmatched > 0 {
		fmt.Printf("No pattern: %d (category does not record matched patterns)\n", rep.Unmatched)
	}
	if rep.RecallWarning != "" {
		fmt.Printf("Warning:    %s\n", rep.RecallWarning)
	}

	fmt.Println("\nBy pattern:")
	for _, b := range rep.Buckets {
		marker := " "
		if b.Broad {
			marker = "~"
		}
		fmt.Printf("  %s %5d  %5.1f%%  %s\n", marker, b.Count, b.Pct, b.Pattern)
		for _, s := range b.Samples {
			fmt.Printf("           | %s\n", s)
		}
	}
	if len(rep.Buckets) > 0 {
		fmt.Println("\n~ = broad pattern (expected to over-capture; refinement filters these)")
	}
}

func excerpt(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
