// Package refine sends extracted candidates through an LLM pass that
// drops false positives and adds structure pattern matching cannot see
// (who is responsible, whether a question was answered, final versus
// tentative).
//
// Candidates travel in chunks. Each chunk becomes one completion
// request; a chunk that fails degrades to its original candidates
// tagged with an "error" key rather than failing the whole run.
package refine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/llm"
)

const (
	// DefaultChunkSize is the library default. The CLI uses a smaller
	// chunk so responses stay under the token ceiling.
	DefaultChunkSize = 50

	// maxResponseTokens caps each completion. Oversized chunks hit this
	// ceiling and come back truncated.
	maxResponseTokens = 8192

	defaultMaxRetries = 2
)

// Item is one refined record. Its schema varies by category; the
// Decode helpers produce typed views.
type Item map[string]any

// Err returns the item's error tag, or empty if the item refined
// cleanly.
func (it Item) Err() string {
	s, _ := it["error"].(string)
	return s
}

// ErrorCount reports how many items carry an error tag.
func ErrorCount(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Err() != "" {
			n++
		}
	}
	return n
}

// Options configures an Analyzer.
type Options struct {
	ChunkSize  int       // candidates per completion (0 = DefaultChunkSize)
	MaxRetries int       // extra attempts per chunk on API errors (<0 = none, 0 = default)
	Progress   io.Writer // chunk progress and warnings (nil = discard)
}

// Analyzer refines candidate batches through an LLM provider.
type Analyzer struct {
	provider   llm.Provider
	chunkSize  int
	maxRetries int
	progress   io.Writer
}

// New creates an Analyzer over the given provider.
func New(provider llm.Provider, opts Options) *Analyzer {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	} else if maxRetries < 0 {
		maxRetries = 0
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	return &Analyzer{
		provider:   provider,
		chunkSize:  chunkSize,
		maxRetries: maxRetries,
		progress:   progress,
	}
}

// Refine processes candidates in chunks and returns the combined
// items. It never aborts the batch: failed chunks contribute their
// original candidates tagged with an error key.
func (a *Analyzer) Refine(ctx context.Context, category string, candidates []extract.Candidate) []Item {
	if len(candidates) == 0 {
		return nil
	}

	totalChunks := (len(candidates)-1)/a.chunkSize + 1

	var all []Item
	for i := 0; i < len(candidates); i += a.chunkSize {
		end := min(i+a.chunkSize, len(candidates))
		chunk := candidates[i:end]
		fmt.Fprintf(a.progress, "processing chunk %d/%d (%d items)\n", i/a.chunkSize+1, totalChunks, len(chunk))

		if err := ctx.Err(); err != nil {
			all = append(all, taggedItems(err, chunk)...)
			continue
		}
		all = append(all, a.refineChunk(ctx, category, chunk)...)
	}
	return all
}

// refineChunk runs one chunk through the provider with retry on API
// errors. Unparseable responses are not retried: a malformed reply
// usually means the chunk is too large, and a retry burns tokens on
// the same outcome.
func (a *Analyzer) refineChunk(ctx context.Context, category string, chunk []extract.Candidate) []Item {
	prompt, err := buildPrompt(category, chunk)
	if err != nil {
		return taggedItems(err, chunk)
	}

	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		response, err := a.provider.Complete(ctx, prompt, llm.CompletionOpts{
			MaxTokens:   maxResponseTokens,
			Temperature: 0.2,
		})
		if err == nil {
			items, perr := a.parseItems(response)
			if perr != nil {
				fmt.Fprintf(a.progress, "warning: failed to parse JSON response: %v (try a smaller chunk size)\n", perr)
				return taggedItems(perr, chunk)
			}
			return items
		}
		lastErr = err

		if attempt == a.maxRetries {
			break
		}

		// Exponential backoff: 1s, 2s, 4s. Rate limits that name a
		// Retry-After override it.
		backoff := time.Duration(1<<attempt) * time.Second
		var httpErr *llm.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == 429 && httpErr.RetryAfter > 0 {
			backoff = httpErr.RetryAfter
		}

		select {
		case <-ctx.Done():
			return taggedItems(ctx.Err(), chunk)
		case <-time.After(backoff):
		}
	}

	fmt.Fprintf(a.progress, "warning: chunk failed: %v\n", lastErr)
	return taggedItems(lastErr, chunk)
}

// parseItems strips any code fences from the response and unmarshals
// the JSON array.
func (a *Analyzer) parseItems(response string) ([]Item, error) {
	text := a.extractJSON(response)

	var items []Item
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// extractJSON peels a ```json fence (or any code fence) off the
// response. A fence that never closes means the response hit the token
// ceiling; the remainder is kept so a trailing-garbage parse error
// surfaces instead of a silent empty result.
func (a *Analyzer) extractJSON(response string) string {
	text := strings.TrimSpace(response)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		start := idx + len("```json")
		end := strings.Index(text[start:], "```")
		if end > 0 {
			return strings.TrimSpace(text[start : start+end])
		}
		if end == -1 {
			fmt.Fprintln(a.progress, "warning: response truncated (max tokens hit); try a smaller chunk size")
			return strings.TrimSpace(text[start:])
		}
		return text
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		start := idx + len("```")
		end := strings.Index(text[start:], "```")
		if end > 0 {
			return strings.TrimSpace(text[start : start+end])
		}
		if end == -1 {
			fmt.Fprintln(a.progress, "warning: response truncated")
			return strings.TrimSpace(text[start:])
		}
	}

	return text
}

// taggedItems converts a failed chunk back into items, each carrying
// the error alongside the original candidate fields.
func taggedItems(err error, chunk []extract.Candidate) []Item {
	items := make([]Item, 0, len(chunk))
	for _, c := range chunk {
		item := candidateItem(c)
		item["error"] = err.Error()
		items = append(items, item)
	}
	return items
}

// candidateItem flattens a candidate into item form via its JSON
// encoding.
func candidateItem(c extract.Candidate) Item {
	data, err := json.Marshal(c)
	if err != nil {
		return Item{}
	}
	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return Item{}
	}
	return item
}
