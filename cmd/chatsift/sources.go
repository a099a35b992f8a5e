package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hurttlocker/chatsift/internal/connect"
	"github.com/hurttlocker/chatsift/internal/urlinfo"
)

func runSources(args []string) error {
	if len(args) > 0 {
		return usagef("usage: chatsift sources")
	}
	fmt.Println("Available sources:")
	for _, name := range connect.DefaultRegistry.List() {
		p := connect.DefaultRegistry.Get(name)
		fmt.Printf("  %-8s %s\n", name, p.DisplayName())
	}
	return nil
}

func runFetch(args []string) error {
	var (
		source     string
		configJSON string
		outDir     string
	)

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--source" && i+1 < len(args):
			i++
			source = args[i]
		case strings.HasPrefix(args[i], "--source="):
			source = strings.TrimPrefix(args[i], "--source=")
		case args[i] == "--config" && i+1 < len(args):
			i++
			configJSON = args[i]
		case strings.HasPrefix(args[i], "--config="):
			configJSON = strings.TrimPrefix(args[i], "--config=")
		case args[i] == "--out" && i+1 < len(args):
			i++
			outDir = args[i]
		case strings.HasPrefix(args[i], "--out="):
			outDir = strings.TrimPrefix(args[i], "--out=")
		case strings.HasPrefix(args[i], "-"):
			return usagef("unknown flag: %s", args[i])
		default:
			return usagef("unexpected argument: %s", args[i])
		}
	}

	if source == "" {
		return usagef("usage: chatsift fetch --source <name> [--config json] [--out dir]")
	}
	p := connect.DefaultRegistry.Get(source)
	if p == nil {
		return usagef("unknown source %q (available: %s)", source, strings.Join(connect.DefaultRegistry.List(), ", "))
	}

	cfg := p.DefaultConfig()
	if configJSON != "" {
		cfg = json.RawMessage(configJSON)
	}
	if err := p.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid %s config: %w", source, err)
	}

	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	fmt.Printf("Fetching from %s...\n", p.DisplayName())
	docs, err := p.Fetch(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("fetching from %s: %w", source, err)
	}
	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	if err := writeDocuments(outDir, docs); err != nil {
		return err
	}

	fmt.Printf("\nFetched %d documents to %s\n", len(docs), outDir)
	return nil
}

// writeDocuments saves fetched documents as .txt files under outDir.
func writeDocuments(outDir string, docs []connect.Document) error {
	for i, doc := range docs {
		name := safeDocName(doc.Name)
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(doc.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("  [%d/%d] %s (%s)\n", i+1, len(docs), name, doc.Kind())
	}
	return nil
}

// safeDocName turns a fetched document name into a plain .txt filename
// the folder source can re-ingest.
func safeDocName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		name = "document"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".txt") {
		name += ".txt"
	}
	return name
}

func runURLs(args []string) error {
	var (
		file string
		out  string
	)

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--out" && i+1 < len(args):
			i++
			out = args[i]
		case strings.HasPrefix(args[i], "--out="):
			out = strings.TrimPrefix(args[i], "--out=")
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
		return usagef("usage: chatsift urls <list-file> [--out path]")
	}
	if out == "" {
		out = "url_summary_report.md"
	}

	fmt.Println("URL Summarizer")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Reading URLs from: %s\n", file)

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	urls, err := urlinfo.ReadList(f)
	f.Close()
	if err != nil {
		return err
	}
	fmt.Printf("Found %d URLs to analyze\n\n", len(urls))

	analyzer := urlinfo.NewAnalyzer()
	ctx := context.Background()
	summaries := make([]urlinfo.Summary, 0, len(urls))
	for i, u := range urls {
		fmt.Printf("  [%d/%d] %s\n", i+1, len(urls), u)
		summaries = append(summaries, analyzer.Analyze(ctx, u))
	}

	fmt.Printf("\nGenerating report: %s\n", out)
	outFile, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := urlinfo.WriteReport(outFile, summaries); err != nil {
		outFile.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}
	fmt.Printf("Report generated successfully: %s\n", out)
	fmt.Println("Done!")
	return nil
}
