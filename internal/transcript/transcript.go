// Package transcript parses exported chat transcripts into messages.
//
// The format is the WhatsApp-style text export: each message starts with
// a [DD/MM/YYYY, HH:MM] or [DD/MM/YYYY, HH:MM:SS] marker, followed by
// "Sender: content". Lines without a marker continue the previous
// message. System notices (joins, subject changes) have no sender and
// are attributed to SystemSender.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// SystemSender is the sender recorded for timestamped lines that carry
// no "Sender:" prefix.
const SystemSender = "SYSTEM"

// Message is a single reconstructed chat message. Timestamp is the
// matched marker text exactly as exported; Date and Time are its two
// halves.
type Message struct {
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Content   string `json:"content"`
}

var (
	// Timestamp marker anchored at line start. The seconds field is optional.
	timestampPattern = regexp.MustCompile(`^\[(\d{2}/\d{2}/\d{4}, \d{2}:\d{2}(?::\d{2})?)\]`)

	// Sender split: everything up to the first colon, then the content.
	senderPattern = regexp.MustCompile(`^([^:]+?):\s*(.+)`)
)

// Parse reads a transcript and reconstructs its messages in input order.
// Lines before the first timestamp marker are dropped. An empty input
// yields an empty slice.
func Parse(r io.Reader) ([]Message, error) {
	var messages []Message
	var current *Message

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := s.Text()

		m := timestampPattern.FindStringSubmatch(line)
		if m == nil {
			// Continuation of the current message, or preamble noise.
			if current != nil {
				current.Content += "\n" + strings.TrimRight(line, " \t\r")
			}
			continue
		}

		if current != nil {
			messages = append(messages, *current)
		}

		date, tm := splitTimestamp(m[1])
		rest := strings.TrimSpace(line[len(m[0]):])

		sender := SystemSender
		content := rest
		if sm := senderPattern.FindStringSubmatch(rest); sm != nil {
			sender = strings.TrimSpace(sm[1])
			content = strings.TrimSpace(sm[2])
		}

		current = &Message{
			Timestamp: m[1],
			Sender:    sender,
			Date:      date,
			Time:      tm,
			Content:   content,
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	if current != nil {
		messages = append(messages, *current)
	}

	return messages, nil
}

// ParseFile parses the transcript at path.
func ParseFile(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	messages, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return messages, nil
}

// ParseString parses an in-memory transcript.
func ParseString(text string) []Message {
	messages, _ := Parse(strings.NewReader(text))
	return messages
}

// splitTimestamp separates "DD/MM/YYYY, HH:MM[:SS]" into its parts.
func splitTimestamp(ts string) (date, tm string) {
	parts := strings.SplitN(ts, ",", 2)
	date = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		tm = strings.TrimSpace(parts[1])
	}
	return date, tm
}
