// Command chatsift sifts WhatsApp chat exports into structured records.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/report"
	"github.com/hurttlocker/chatsift/internal/transcript"
	"github.com/mattn/go-isatty"
)

const version = "0.1.0"

// usageError marks bad invocations so main exits 2 instead of 1.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(os.Args[2:])
	case "refine":
		err = runRefine(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "types":
		err = runTypes(os.Args[2:])
	case "urls":
		err = runURLs(os.Args[2:])
	case "sources":
		err = runSources(os.Args[2:])
	case "fetch":
		err = runFetch(os.Args[2:])
	case "web":
		err = runWeb(os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("chatsift %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runAnalyze(args []string) error {
	var (
		file      string
		category  string
		format    string
		days      int
		limit     int
		showStats bool
	)

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--type" && i+1 < len(args):
			i++
			category = args[i]
		case strings.HasPrefix(args[i], "--type="):
			category = strings.TrimPrefix(args[i], "--type=")
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case args[i] == "--days" && i+1 < len(args):
			i++
			n, err := parseCount(args[i])
			if err != nil {
				return usagef("invalid --days value: %s", args[i])
			}
			days = n
		case strings.HasPrefix(args[i], "--days="):
			n, err := parseCount(strings.TrimPrefix(args[i], "--days="))
			if err != nil {
				return usagef("invalid --days value: %s", strings.TrimPrefix(args[i], "--days="))
			}
			days = n
		case args[i] == "--limit" && i+1 < len(args):
			i++
			n, err := parseCount(args[i])
			if err != nil {
				return usagef("invalid --limit value: %s", args[i])
			}
			limit = n
		case strings.HasPrefix(args[i], "--limit="):
			n, err := parseCount(strings.TrimPrefix(args[i], "--limit="))
			if err != nil {
				return usagef("invalid --limit value: %s", strings.TrimPrefix(args[i], "--limit="))
			}
			limit = n
		case args[i] == "--stats":
			showStats = true
		case strings.HasPrefix(args[i], "-"):
			return usagef("unknown flag: %s", args[i])
		default:
			if file != "" {
				return usagef("unexpected argument: %s", args[i])
			}
			file = args[i]
		}
	}

	if file == "" || category == "" {
		return usagef("usage: chatsift analyze <file> --type <category> [--format json|table|markdown] [--days N] [--limit N] [--stats]")
	}

	fmt.Fprintf(os.Stderr, "Parsing chat file: %s\n", file)
	messages, err := transcript.ParseFile(file)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %d messages\n", len(messages))

	if days > 0 {
		messages = transcript.FilterDays(messages, days)
	}

	fmt.Fprintf(os.Stderr, "Extracting %s...\n", category)
	candidates, err := extract.New(messages).Extract(category)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	fmt.Fprintf(os.Stderr, "Found %d potential %s\n", len(candidates), category)

	if showStats {
		rate := 0.0
		if len(messages) > 0 {
			rate = float64(len(candidates)) / float64(len(messages)) * 100
		}
		fmt.Printf("Total messages: %d\n", len(messages))
		fmt.Printf("Matches found: %d\n", len(candidates))
		fmt.Printf("Match rate: %.1f%%\n", rate)
		return nil
	}

	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	if format == "" {
		if isTTY() {
			format = "table"
		} else {
			format = "json"
		}
	}

	switch format {
	case "json":
		out, err := report.CandidatesJSON(candidates)
		if err != nil {
			return err
		}
		fmt.Println(out)
	case "table":
		fmt.Print(report.CandidatesTable(candidates))
	case "markdown":
		fmt.Print(report.CandidatesMarkdown(candidates, category))
	default:
		return usagef("unsupported format: %s (supported: json, table, markdown)", format)
	}
	return nil
}

func runStats(args []string) error {
	var (
		file   string
		format string
		days   int
	)

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case args[i] == "--days" && i+1 < len(args):
			i++
			n, err := parseCount(args[i])
			if err != nil {
				return usagef("invalid --days value: %s", args[i])
			}
			days = n
		case strings.HasPrefix(args[i], "--days="):
			n, err := parseCount(strings.TrimPrefix(args[i], "--days="))
			if err != nil {
				return usagef("invalid --days value: %s", strings.TrimPrefix(args[i], "--days="))
			}
			days = n
		case strings.HasPrefix(args[i], "-"):
			return usagef("unknown flag: %s", args[i])
		default:
			if file != "" {
				return usagef("unexpected argument: %s", args[i])
			}
			file = args[i]
		}
	}

	if file == "" {
		return usagef("usage: chatsift stats <file> [--format text|json] [--days N]")
	}

	messages, err := transcript.ParseFile(file)
	if err != nil {
		return err
	}
	if days > 0 {
		messages = transcript.FilterDays(messages, days)
	}
	stats := transcript.Summarize(messages)

	if format == "" {
		if isTTY() {
			format = "text"
		} else {
			format = "json"
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "text":
		printStatsText(stats)
		return nil
	default:
		return usagef("unsupported format: %s (supported: text, json)", format)
	}
}

func printStatsText(stats transcript.Stats) {
	fmt.Printf("Messages:        %d\n", stats.Messages)
	fmt.Printf("Senders:         %d\n", stats.Senders)
	fmt.Printf("System messages: %d\n", stats.SystemMessages)
	fmt.Printf("Multi-line:      %d\n", stats.MultiLine)
	if stats.FirstDate != "" {
		fmt.Printf("Date range:      %s to %s\n", stats.FirstDate, stats.LastDate)
	}
	fmt.Printf("Active days:     %d\n", stats.ActiveDays)

	if len(stats.BySender) == 0 {
		return
	}
	fmt.Println("\nTop senders:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range topSenders(stats.BySender, 10) {
		fmt.Fprintf(w, "  %s\t%d\n", s.name, s.count)
	}
	w.Flush()
}

type senderCount struct {
	name  string
	count int
}

func topSenders(bySender map[string]int, limit int) []senderCount {
	out := make([]senderCount, 0, len(bySender))
	for name, count := range bySender {
		out = append(out, senderCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func runTypes(args []string) error {
	if len(args) > 0 {
		return usagef("usage: chatsift types")
	}
	fmt.Println("Available categories:")
	for _, rule := range extract.DefaultRegistry.Rules() {
		fmt.Printf("  %-12s %s\n", rule.Name(), rule.Description())
	}
	return nil
}

// parseCount parses a non-negative integer flag value.
func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("not a non-negative integer: %q", raw)
	}
	return n, nil
}

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printUsage() {
	fmt.Printf(`chatsift %s - Sift WhatsApp chat exports into structured records

Usage:
  chatsift <command> [arguments]

Commands:
  analyze <file>      Extract candidates for a category (pattern rules only)
  refine <file>       Extract, then refine through an LLM into clean records
  stats <file>        Show transcript statistics
  types               List extraction categories
  urls <list-file>    Summarize a list of URLs into a markdown report
  sources             List transcript sources
  fetch               Download transcripts from a configured source
  web                 Start the upload-and-analyze web UI
  mcp                 Serve analysis tools over MCP stdio
  config              Show resolved configuration
  version             Print version

Analyze Flags:
  --type <category>   Extraction category (see: chatsift types)
  --format <fmt>      json, table, or markdown (default: table on a TTY, else json)
  --days <N>          Only analyze the last N days of chat
  --limit <N>         Keep at most N candidates
  --stats             Print a match-rate summary instead of candidates

Refine Flags:
  --type <category>   Extraction category
  --llm <spec>        Provider or provider/model (default: openrouter)
  --chunk-size <N>    Candidates per LLM call (default: 30)
  --format <fmt>      markdown or json (default: markdown)
  --out <path>        Write output to a file instead of stdout

Flags:
  -h, --help          Show this help message
  -v, --version       Print version

Documentation:
  https://github.com/hurttlocker/chatsift
`, version)
}
