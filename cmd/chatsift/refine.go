package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hurttlocker/chatsift/internal/config"
	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/llm"
	"github.com/hurttlocker/chatsift/internal/refine"
	"github.com/hurttlocker/chatsift/internal/report"
	"github.com/hurttlocker/chatsift/internal/transcript"
)

// cliChunkSize is the refine command default. Smaller than the library
// default so responses stay comfortably under the completion token cap.
const cliChunkSize = 30

func runRefine(args []string) error {
	var (
		file      string
		category  string
		llmFlag   string
		chunkFlag string
		format    = "markdown"
		out       string
	)

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--type" && i+1 < len(args):
			i++
			category = args[i]
		case strings.HasPrefix(args[i], "--type="):
			category = strings.TrimPrefix(args[i], "--type=")
		case args[i] == "--llm" && i+1 < len(args):
			i++
			llmFlag = args[i]
		case strings.HasPrefix(args[i], "--llm="):
			llmFlag = strings.TrimPrefix(args[i], "--llm=")
		case args[i] == "--chunk-size" && i+1 < len(args):
			i++
			chunkFlag = args[i]
		case strings.HasPrefix(args[i], "--chunk-size="):
			chunkFlag = strings.TrimPrefix(args[i], "--chunk-size=")
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
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

	if file == "" || category == "" {
		return usagef("usage: chatsift refine <file> --type <category> [--llm provider/model] [--chunk-size N] [--format markdown|json] [--out path]")
	}
	if format != "markdown" && format != "json" {
		return usagef("unsupported format: %s (supported: markdown, json)", format)
	}
	if chunkFlag != "" {
		if _, err := parseCount(chunkFlag); err != nil {
			return usagef("invalid --chunk-size value: %s", chunkFlag)
		}
	}

	rc, err := config.ResolveConfig(config.ResolveOptions{CLILLM: llmFlag, CLIChunkSize: chunkFlag})
	if err != nil {
		return err
	}

	llmSpec := config.Effective(rc.LLM, "openrouter")
	llmCfg, err := llm.ParseLLMFlag(llmSpec.Value)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	llmCfg.APIKey = rc.APIKeyForProvider(llmSpec.Value).Value
	chunkSize := config.EffectiveInt(rc.ChunkSize, cliChunkSize)

	fmt.Fprintf(os.Stderr, "Parsing chat file: %s\n", file)
	messages, err := transcript.ParseFile(file)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %d messages\n", len(messages))

	fmt.Fprintf(os.Stderr, "Extracting %s...\n", category)
	candidates, err := extract.New(messages).Extract(category)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	fmt.Fprintf(os.Stderr, "Found %d potential %s\n", len(candidates), category)

	content, err := refineOutput(context.Background(), llmCfg, chunkSize, category, candidates, format)
	if err != nil {
		return err
	}

	if out != "" {
		if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("Output written to: %s\n", out)
		return nil
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println(content)
	return nil
}

// refineOutput runs LLM refinement and renders the result. When no
// provider can be built (usually a missing API key) it warns and falls
// back to the pattern-level report.
func refineOutput(ctx context.Context, llmCfg llm.Config, chunkSize int, category string, candidates []extract.Candidate, format string) (string, error) {
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARN: %v; falling back to pattern-only output\n", err)
		if format == "json" {
			return report.CandidatesJSON(candidates)
		}
		return report.CandidatesMarkdown(candidates, category), nil
	}

	fmt.Fprintf(os.Stderr, "Refining with %s...\n", provider.Name())
	analyzer := refine.New(provider, refine.Options{ChunkSize: chunkSize, Progress: os.Stderr})
	items := analyzer.Refine(ctx, category, candidates)

	if format == "json" {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding items: %w", err)
		}
		return string(data), nil
	}

	switch category {
	case "actions":
		return report.FormatActions(refine.DecodeActions(items)), nil
	case "urls":
		return report.FormatLinks(refine.DecodeLinks(items)), nil
	case "decisions":
		return report.FormatDecisions(refine.DecodeDecisions(items)), nil
	case "questions":
		return report.FormatQuestions(refine.DecodeQuestions(items)), nil
	case "checkins":
		return report.FormatCheckIns(refine.DecodeCheckIns(items)), nil
	default:
		return report.FormatGeneric(items, category), nil
	}
}
