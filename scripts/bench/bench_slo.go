// bench_slo.go — SLO benchmark for transcript parsing and extraction.
// Run: go run ./scripts/bench [--file chat.txt] [--messages N] [--iterations N]
//
// Measures p50/p95/p99 latencies for a full parse and for each category's
// extraction pass, against a real transcript or a synthetic one, and
// emits a JSON report. Fails (exit 1) when any latency blows its SLO.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/transcript"
)

type BenchResult struct {
	Operation  string  `json:"operation"`
	Iterations int     `json:"iterations"`
	P50Ms      float64 `json:"p50_ms"`
	P95Ms      float64 `json:"p95_ms"`
	P99Ms      float64 `json:"p99_ms"`
	MinMs      float64 `json:"min_ms"`
	MaxMs      float64 `json:"max_ms"`
	MeanMs     float64 `json:"mean_ms"`
	Pass       bool    `json:"pass"`
	SLOMs      float64 `json:"slo_ms"`
}

type BenchReport struct {
	GeneratedAt  string        `json:"generated_at"`
	Source       string        `json:"source"`
	MessageCount int           `json:"message_count"`
	Results      []BenchResult `json:"results"`
	AllPass      bool          `json:"all_pass"`
}

// SLOs for a 10K-message transcript on commodity hardware. Parsing is
// I/O-shaped; extraction is pure regex over in-memory strings.
const (
	parseSLOMs   = 500.0
	extractSLOMs = 1000.0
)

func main() {
	file := flag.String("file", "", "Transcript file (default: synthetic)")
	messages := flag.Int("messages", 10000, "Synthetic transcript size when no --file given")
	iterations := flag.Int("iterations", 20, "Iterations per operation")
	outFile := flag.String("out", "", "Output JSON file (default: stdout)")
	flag.Parse()

	var text, source string
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		text = string(data)
		source = *file
	} else {
		text = syntheticTranscript(rand.New(rand.NewSource(42)), *messages)
		source = fmt.Sprintf("synthetic (%d messages)", *messages)
	}

	parsed := transcript.ParseString(text)
	report := BenchReport{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Source:       source,
		MessageCount: len(parsed),
		AllPass:      true,
	}

	report.Results = append(report.Results, runBench("parse", *iterations, parseSLOMs, func() {
		transcript.ParseString(text)
	}))

	ex := extract.New(parsed)
	for _, category := range extract.Categories() {
		category := category
		report.Results = append(report.Results, runBench("extract:"+category, *iterations, extractSLOMs, func() {
			ex.Extract(category)
		}))
	}

	for _, r := range report.Results {
		if !r.Pass {
			report.AllPass = false
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outFile)
	} else {
		fmt.Println(string(data))
	}

	if !report.AllPass {
		os.Exit(1)
	}
}

func runBench(name string, iterations int, sloMs float64, fn func()) BenchResult {
	latencies := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		fn()
		latencies = append(latencies, float64(time.Since(start).Microseconds())/1000.0)
	}
	sort.Float64s(latencies)

	sum := 0.0
	for _, l := range latencies {
		sum += l
	}

	r := BenchResult{
		Operation:  name,
		Iterations: iterations,
		P50Ms:      percentile(latencies, 50),
		P95Ms:      percentile(latencies, 95),
		P99Ms:      percentile(latencies, 99),
		MinMs:      latencies[0],
		MaxMs:      latencies[len(latencies)-1],
		MeanMs:     sum / float64(len(latencies)),
		SLOMs:      sloMs,
	}
	r.Pass = r.P95Ms <= sloMs
	return r
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Synthetic transcript generation shared with the scale test. The
// content pool mixes plain chatter with lines that trip each category's
// rules, at roughly the ratios seen in real group chats.

var benchSenders = []string{
	"Dana", "Omri", "Maya", "Rotem", "Noa", "Avi", "Tal", "Shira",
}

var benchPhrases = []string{
	"ok sounds good",
	"haha that's great",
	"anyone seen the latest numbers?",
	"can you review the draft please",
	"we agreed to go with option B",
	"meeting tomorrow at 10, agenda attached",
	"deadline is Friday, don't forget",
	"check in: mood 7/10, slept well",
	"@maya please update the assets",
	"here's the link https://example.com/doc/%d",
	"I'll handle the budget section",
	"what time works for everyone?",
	"Rotem will bring the printouts",
	"lunch was amazing today",
	"going to push the release next week",
	"decision: matte finish, finalized",
	"zoom call in 5: https://zoom.us/j/%d",
	"that photo is hilarious",
}

func syntheticTranscript(rng *rand.Rand, messages int) string {
	var b strings.Builder
	b.Grow(messages * 64)

	day := 1
	month := 1
	for i := 0; i < messages; i++ {
		if i > 0 && i%200 == 0 {
			day++
			if day > 28 {
				day = 1
				month++
				if month > 12 {
					month = 1
				}
			}
		}

		phrase := benchPhrases[rng.Intn(len(benchPhrases))]
		if strings.Contains(phrase, "%d") {
			phrase = fmt.Sprintf(phrase, rng.Intn(100000))
		}

		fmt.Fprintf(&b, "[%02d/%02d/2024, %02d:%02d] %s: %s\n",
			day, month, rng.Intn(24), rng.Intn(60),
			benchSenders[rng.Intn(len(benchSenders))], phrase)

		// Occasional multi-line message and system notice, like real
		// exports have.
		if rng.Intn(20) == 0 {
			fmt.Fprintf(&b, "continued on the next line %d\n", i)
		}
		if rng.Intn(50) == 0 {
			fmt.Fprintf(&b, "[%02d/%02d/2024, %02d:%02d] Messages and calls are end-to-end encrypted\n",
				day, month, rng.Intn(24), rng.Intn(60))
			i++
		}
	}
	return b.String()
}
