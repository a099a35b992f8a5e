package refine

import (
	"encoding/json"
	"fmt"

	"github.com/hurttlocker/chatsift/internal/extract"
)

// buildPrompt renders the category's prompt with the chunk embedded as
// indented JSON. Categories without a dedicated prompt get the generic
// one.
func buildPrompt(category string, chunk []extract.Candidate) (string, error) {
	items, err := json.MarshalIndent(chunk, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling chunk: %w", err)
	}

	switch category {
	case "actions":
		return fmt.Sprintf(actionsPrompt, items), nil
	case "urls":
		return fmt.Sprintf(urlsPrompt, items), nil
	case "decisions":
		return fmt.Sprintf(decisionsPrompt, items), nil
	case "meetings":
		return fmt.Sprintf(meetingsPrompt, items), nil
	case "questions":
		return fmt.Sprintf(questionsPrompt, items), nil
	case "deadlines":
		return fmt.Sprintf(deadlinesPrompt, items), nil
	case "assignments":
		return fmt.Sprintf(assignmentsPrompt, items), nil
	case "checkins":
		return fmt.Sprintf(checkinsPrompt, items), nil
	default:
		return fmt.Sprintf(genericPrompt, category, items), nil
	}
}

const actionsPrompt = `Analyze these potential action items from a WhatsApp chat conversation.
For each item, determine:

1. Is it actually an action item? (true/false)
2. Who is responsible? (extract person's name or "team" or "unspecified")
3. What is the specific action? (brief, clear description)
4. When is the deadline? (extract if mentioned, or null)
5. What is the status? ("assigned", "in-progress", "completed", or "mentioned")
6. What is the priority? ("high", "medium", "low" based on language used)

Return ONLY a JSON array with this structure:
[
  {
    "is_action": true/false,
    "responsible": "name or team",
    "action": "clear description",
    "deadline": "when or null",
    "status": "assigned/in-progress/completed/mentioned",
    "priority": "high/medium/low",
    "original_date": "from message",
    "original_time": "from message",
    "original_sender": "from message",
    "original_content": "original message"
  }
]

Only include items where is_action is true in your output.

Messages to analyze:
%s
`

const urlsPrompt = `Analyze these URLs shared in a WhatsApp chat conversation.
For each URL, determine:

1. What type of content is it? (e.g., "meeting notes", "video", "document", "article", "tool", etc.)
2. Generate a better description if the original is unclear or empty
3. Summarize the surrounding context from messages before/after (1-2 sentences explaining why it was shared)
4. Is it important? (true/false based on context)

Return ONLY a JSON array with this structure:
[
  {
    "url": "the URL",
    "type": "content type",
    "context": "summary of why this was shared based on surrounding messages",
    "description": "clear description",
    "important": true/false,
    "shared_by": "person name",
    "date": "date from the message (DD/MM/YYYY format)",
    "time": "time from the message"
  }
]

Messages to analyze (each includes context_before and context_after showing surrounding conversation):
%s
`

const decisionsPrompt = `Analyze these potential decisions from a WhatsApp chat conversation.
For each item, determine:

1. Is it actually a decision? (true/false)
2. What was decided?
3. Who made the decision? (individual or team)
4. What was the decision about? (category: naming, branding, process, technical, etc.)
5. Was it final or tentative?

Return ONLY a JSON array with this structure:
[
  {
    "is_decision": true/false,
    "decision": "what was decided",
    "decided_by": "who decided",
    "category": "what it's about",
    "finality": "final/tentative",
    "date": "from message",
    "context": "brief context"
  }
]

Only include items where is_decision is true.

Messages to analyze:
%s
`

const meetingsPrompt = `Analyze these meeting-related messages from a WhatsApp chat.
For each item, determine:

1. What type is it? (scheduled meeting, meeting notes, agenda, or just a mention)
2. When is/was the meeting? (extract date/time if mentioned)
3. What is the topic/purpose?
4. Who is involved?
5. Extract any Zoom/meeting links

Return ONLY a JSON array with this structure:
[
  {
    "type": "scheduled/notes/agenda/mention",
    "meeting_time": "when or null",
    "topic": "what it's about",
    "participants": ["list", "of", "people"],
    "link": "meeting link or null",
    "date_mentioned": "from message"
  }
]

Messages to analyze:
%s
`

const questionsPrompt = `Analyze these questions from a WhatsApp chat.
For each question, determine:

1. What is the core question being asked?
2. Who asked it?
3. What category? (technical, process, decision-seeking, clarification, etc.)
4. Was it answered? (look for responses in the content)
5. If answered, what was the answer?

Return ONLY a JSON array with this structure:
[
  {
    "question": "the core question",
    "asked_by": "person name",
    "category": "type of question",
    "answered": true/false,
    "answer": "the answer or null",
    "date": "from message"
  }
]

Messages to analyze:
%s
`

const deadlinesPrompt = `Analyze these deadline mentions from a WhatsApp chat.
For each item, determine:

1. What is the deadline for?
2. When is the deadline? (specific date or relative like "by Friday")
3. Who is responsible?
4. How urgent is it? (high/medium/low)

Return ONLY a JSON array with this structure:
[
  {
    "task": "what needs to be done",
    "deadline": "when",
    "responsible": "who or unspecified",
    "urgency": "high/medium/low",
    "date_mentioned": "from message"
  }
]

Messages to analyze:
%s
`

const assignmentsPrompt = `Analyze these task assignments from a WhatsApp chat.
For each assignment, determine:

1. What is the task?
2. Who assigned it?
3. Who is it assigned to?
4. When should it be completed?
5. What is the context/project?

Return ONLY a JSON array with this structure:
[
  {
    "task": "clear task description",
    "assigned_by": "who assigned it",
    "assigned_to": "who should do it",
    "deadline": "when or null",
    "project_context": "what it's for",
    "date_assigned": "from message"
  }
]

Messages to analyze:
%s
`

const checkinsPrompt = `Analyze these daily check-in messages from a WhatsApp chat.
For each check-in, extract:

1. Who sent the check-in? (person's name)
2. What is their mood score? (can be "X/10" or just "X" - normalize to "X/10" format)
3. What comments did they include about their mood? (text immediately after the score)
4. When was it sent? (date and time from message)

Return ONLY a JSON array with this structure:
[
  {
    "person": "sender name",
    "date": "DD/MM/YYYY",
    "time": "HH:MM:SS",
    "score": "X/10",
    "comments": "mood comments from message"
  }
]

Important:
- The comments should capture the text immediately following the mood score, typically describing how they feel and their priorities for the day.
- Mood scores can appear in various formats: "9/10", "- 9", "mood: 9", etc. Always normalize to "X/10" format in the output.
- Include the explanation in parentheses if provided (e.g., "9 (for a good nights sleep)")

Messages to analyze:
%s
`

const genericPrompt = `Analyze these items of type "%s" from a WhatsApp chat.
Extract relevant information and structure it in a clear JSON format.

Messages to analyze:
%s
`
