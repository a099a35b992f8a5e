package extract

import (
	"regexp"
	"strings"

	"github.com/hurttlocker/chatsift/internal/transcript"
)

func init() {
	DefaultRegistry.Register(&patternRule{
		name:        "actions",
		description: "Task assignments, deliverables, and things to do",
		skipSystem:  true,
		patterns: compilePatterns(
			// Mentions
			`@\w+`,
			// Requests and obligations
			`\b(can you|could you|please|need to|have to|should|must)\b`,
			// Task vocabulary
			`\b(task|action|todo|assignment|deliverable)\b`,
			// Time pressure
			`\b(by \w+day|by EOD|before|deadline|due)\b`,
			// List items
			`^\s*[\d\-\*•]\s+`,
			// Commitments
			`\b(will|going to|planning to|need to)\b`,
			// Work verbs
			`\b(create|make|build|develop|design|write|research|investigate|review)\b`,
		),
	})

	DefaultRegistry.Register(&urlRule{})

	DefaultRegistry.Register(&patternRule{
		name:        "decisions",
		description: "Decisions made, approvals, and agreements",
		patterns: compilePatterns(
			`\b(decided|decision|agreed|settled on|chose|selected|going with)\b`,
			`\b(let's|we should|we will|we're going to)\b`,
			`\b(approved|confirmed|finalized|locked in)\b`,
		),
	})

	DefaultRegistry.Register(&questionRule{})

	DefaultRegistry.Register(&patternRule{
		name:        "meetings",
		description: "Meeting mentions, agendas, and call links",
		patterns: compilePatterns(
			`\b(meeting|call|zoom|session)\b`,
			`\b(agenda|minutes)\b`,
			`zoom\.us`,
		),
	})

	DefaultRegistry.Register(&patternRule{
		name:        "deadlines",
		description: "Deadline and due-date mentions",
		patterns: compilePatterns(
			`\b(by \w+day|by EOD|by end of|before \w+day)\b`,
			`\b(deadline|due date|due by)\b`,
			`\b(today|tomorrow|next week|this week)\b`,
		),
	})

	DefaultRegistry.Register(&assignmentRule{})

	DefaultRegistry.Register(&checkinRule{})
}

// pattern pairs a compiled matcher with its source text. The source is
// what candidates report as matched_pattern.
type pattern struct {
	re     *regexp.Regexp
	source string
}

// compilePatterns builds case-insensitive patterns from source strings.
// Rule tables are package literals, so compilation failures surface at
// init.
func compilePatterns(sources ...string) []pattern {
	patterns := make([]pattern, 0, len(sources))
	for _, src := range sources {
		patterns = append(patterns, pattern{
			re:     regexp.MustCompile(`(?i)` + src),
			source: src,
		})
	}
	return patterns
}

// patternRule qualifies a message when any pattern matches its
// lowercased content. Patterns are tried in order; the first match is
// recorded and the rest are skipped.
type patternRule struct {
	name        string
	description string
	patterns    []pattern
	skipSystem  bool
}

func (r *patternRule) Name() string        { return r.name }
func (r *patternRule) Description() string { return r.description }

func (r *patternRule) Extract(messages []transcript.Message) []Candidate {
	var candidates []Candidate
	for _, m := range messages {
		if r.skipSystem && m.Sender == transcript.SystemSender {
			continue
		}
		content := strings.ToLower(m.Content)
		for _, p := range r.patterns {
			if p.re.MatchString(content) {
				candidates = append(candidates, Candidate{
					Category:       r.name,
					Timestamp:      m.Timestamp,
					Sender:         m.Sender,
					Date:           m.Date,
					Time:           m.Time,
					Content:        m.Content,
					MatchedPattern: p.source,
				})
				break
			}
		}
	}
	return candidates
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

const contextRadius = 2

// urlRule emits one candidate per URL occurrence, with surrounding
// conversation attached.
type urlRule struct{}

func (r *urlRule) Name() string { return "urls" }
func (r *urlRule) Description() string {
	return "All links shared with who posted them and why"
}

func (r *urlRule) Extract(messages []transcript.Message) []Candidate {
	var candidates []Candidate
	for i, m := range messages {
		urls := urlPattern.FindAllString(m.Content, -1)
		if len(urls) == 0 {
			continue
		}

		before := neighborContext(messages, i-contextRadius, i)
		after := neighborContext(messages, i+1, i+1+contextRadius)

		// The line holding the first URL, minus the URL itself, doubles
		// as a description.
		description := ""
		for _, line := range strings.Split(m.Content, "\n") {
			if strings.Contains(line, urls[0]) {
				description = strings.TrimSpace(strings.ReplaceAll(line, urls[0], ""))
				break
			}
		}

		for _, url := range urls {
			candidates = append(candidates, Candidate{
				Category:      "urls",
				Timestamp:     m.Timestamp,
				Sender:        m.Sender,
				Date:          m.Date,
				Time:          m.Time,
				Content:       m.Content,
				URL:           url,
				Description:   description,
				FullMessage:   m.Content,
				ContextBefore: before,
				ContextAfter:  after,
			})
		}
	}
	return candidates
}

// neighborContext collects non-system messages in the index window
// [lo, hi), clamped to the slice, with content capped at 200 chars.
func neighborContext(messages []transcript.Message, lo, hi int) []ContextMessage {
	if lo < 0 {
		lo = 0
	}
	if hi > len(messages) {
		hi = len(messages)
	}

	var ctx []ContextMessage
	for j := lo; j < hi; j++ {
		if messages[j].Sender == transcript.SystemSender {
			continue
		}
		ctx = append(ctx, ContextMessage{
			Sender:  messages[j].Sender,
			Content: truncate(messages[j].Content, 200),
			Time:    messages[j].Time,
		})
	}
	return ctx
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

var questionWordPattern = regexp.MustCompile(`(?i)\b(what|why|how|when|where|who|which)\b`)

// questionRule qualifies any message containing a question mark or an
// interrogative word. Unlike actions, system notices are kept.
type questionRule struct{}

func (r *questionRule) Name() string        { return "questions" }
func (r *questionRule) Description() string { return "Questions asked, answered or not" }

func (r *questionRule) Extract(messages []transcript.Message) []Candidate {
	var candidates []Candidate
	for _, m := range messages {
		if !strings.Contains(m.Content, "?") && !questionWordPattern.MatchString(m.Content) {
			continue
		}
		candidates = append(candidates, Candidate{
			Category:  "questions",
			Timestamp: m.Timestamp,
			Sender:    m.Sender,
			Date:      m.Date,
			Time:      m.Time,
			Content:   m.Content,
		})
	}
	return candidates
}

var (
	mentionPattern = regexp.MustCompile(`@(\w+)`)

	// Title-case name followed by a delegating verb. Loose on purpose:
	// sentence-initial words like "Maybe to..." qualify too.
	assignmentPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(?:to|will|can you|please)`)
)

// assignmentRule qualifies messages that mention people or hand tasks
// to named people. Both scans run on the raw content, so the name scan
// stays case-sensitive.
type assignmentRule struct{}

func (r *assignmentRule) Name() string        { return "assignments" }
func (r *assignmentRule) Description() string { return "Tasks assigned to specific people" }

func (r *assignmentRule) Extract(messages []transcript.Message) []Candidate {
	var candidates []Candidate
	for _, m := range messages {
		mentions := captureGroups(mentionPattern, m.Content)
		assigned := captureGroups(assignmentPattern, m.Content)
		if len(mentions) == 0 && len(assigned) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			Category:    "assignments",
			Timestamp:   m.Timestamp,
			Sender:      m.Sender,
			Date:        m.Date,
			Time:        m.Time,
			Content:     m.Content,
			Mentions:    mentions,
			Assignments: assigned,
		})
	}
	return candidates
}

// captureGroups returns the first capture group of every match.
func captureGroups(re *regexp.Regexp, s string) []string {
	var out []string
	for _, match := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, match[1])
	}
	return out
}

var (
	checkinKeywords = []string{"check in", "checkin", "check-in", "mood"}

	// Scores arrive as "8/10", "- 9", "- 9 (slept well)", or "mood: 7".
	// The bare-number form must sit at the end of the message; a single
	// trailing newline (from a blank continuation line) still counts.
	checkinScorePattern = regexp.MustCompile(`(?:(\d+)/10|[-•]\s*(\d+)(?:\s*\(|\n?$)|mood[\s:]+(\d+))`)
)

// checkinRule requires both a check-in keyword and a recognizable score
// in the same message. Either signal alone does not qualify.
type checkinRule struct{}

func (r *checkinRule) Name() string        { return "checkins" }
func (r *checkinRule) Description() string { return "Daily mood scores and check-in messages" }

func (r *checkinRule) Extract(messages []transcript.Message) []Candidate {
	var candidates []Candidate
	for _, m := range messages {
		content := strings.ToLower(m.Content)

		hasKeyword := false
		for _, kw := range checkinKeywords {
			if strings.Contains(content, kw) {
				hasKeyword = true
				break
			}
		}
		if !hasKeyword {
			continue
		}

		groups := checkinScorePattern.FindStringSubmatch(content)
		if groups == nil {
			continue
		}

		score := ""
		for _, g := range groups[1:] {
			if g != "" {
				score = g
				break
			}
		}

		candidates = append(candidates, Candidate{
			Category:  "checkins",
			Timestamp: m.Timestamp,
			Sender:    m.Sender,
			Date:      m.Date,
			Time:      m.Time,
			Content:   m.Content,
			Score:     score,
		})
	}
	return candidates
}
