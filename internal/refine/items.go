package refine

import "encoding/json"

// Typed views over refined items. Fields mirror the JSON schemas the
// prompts request; Error is set on items passed through from a failed
// chunk. Formatters filter on it.

// Action is a refined action item.
type Action struct {
	IsAction    bool   `json:"is_action,omitempty"`
	Responsible string `json:"responsible,omitempty"`
	Action      string `json:"action,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Date        string `json:"original_date,omitempty"`
	Time        string `json:"original_time,omitempty"`
	Sender      string `json:"original_sender,omitempty"`
	Content     string `json:"original_content,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Link is a refined shared URL. Title and Summary are filled in later
// when fetched page metadata is merged onto the item.
type Link struct {
	URL         string `json:"url,omitempty"`
	Type        string `json:"type,omitempty"`
	Context     string `json:"context,omitempty"`
	Description string `json:"description,omitempty"`
	Important   bool   `json:"important,omitempty"`
	SharedBy    string `json:"shared_by,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	FullMessage string `json:"full_message,omitempty"`
	Title       string `json:"url_title,omitempty"`
	Summary     string `json:"url_summary,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Decision is a refined decision. Confidence and Participants are not
// part of the prompt schema but some models volunteer them; the report
// layer renders them when present.
type Decision struct {
	IsDecision   bool     `json:"is_decision,omitempty"`
	Decision     string   `json:"decision,omitempty"`
	DecidedBy    string   `json:"decided_by,omitempty"`
	Category     string   `json:"category,omitempty"`
	Finality     string   `json:"finality,omitempty"`
	Confidence   string   `json:"confidence,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Date         string   `json:"date,omitempty"`
	Time         string   `json:"time,omitempty"`
	Context      string   `json:"context,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Question is a refined question with answer tracking.
type Question struct {
	Question string `json:"question,omitempty"`
	AskedBy  string `json:"asked_by,omitempty"`
	Category string `json:"category,omitempty"`
	Answered bool   `json:"answered,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Date     string `json:"date,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Meeting is a refined meeting mention.
type Meeting struct {
	Type          string   `json:"type,omitempty"`
	MeetingTime   string   `json:"meeting_time,omitempty"`
	Topic         string   `json:"topic,omitempty"`
	Participants  []string `json:"participants,omitempty"`
	Link          string   `json:"link,omitempty"`
	DateMentioned string   `json:"date_mentioned,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Deadline is a refined deadline mention.
type Deadline struct {
	Task          string `json:"task,omitempty"`
	Deadline      string `json:"deadline,omitempty"`
	Responsible   string `json:"responsible,omitempty"`
	Urgency       string `json:"urgency,omitempty"`
	DateMentioned string `json:"date_mentioned,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Assignment is a refined task assignment.
type Assignment struct {
	Task           string `json:"task,omitempty"`
	AssignedBy     string `json:"assigned_by,omitempty"`
	AssignedTo     string `json:"assigned_to,omitempty"`
	Deadline       string `json:"deadline,omitempty"`
	ProjectContext string `json:"project_context,omitempty"`
	DateAssigned   string `json:"date_assigned,omitempty"`
	Error          string `json:"error,omitempty"`
}

// CheckIn is a refined daily check-in with a normalized mood score.
type CheckIn struct {
	Person   string `json:"person,omitempty"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Score    string `json:"score,omitempty"`
	Comments string `json:"comments,omitempty"`
	Error    string `json:"error,omitempty"`
}

func DecodeActions(items []Item) []Action         { return decodeItems[Action](items) }
func DecodeLinks(items []Item) []Link             { return decodeItems[Link](items) }
func DecodeDecisions(items []Item) []Decision     { return decodeItems[Decision](items) }
func DecodeQuestions(items []Item) []Question     { return decodeItems[Question](items) }
func DecodeMeetings(items []Item) []Meeting       { return decodeItems[Meeting](items) }
func DecodeDeadlines(items []Item) []Deadline     { return decodeItems[Deadline](items) }
func DecodeAssignments(items []Item) []Assignment { return decodeItems[Assignment](items) }
func DecodeCheckIns(items []Item) []CheckIn       { return decodeItems[CheckIn](items) }

// decodeItems unmarshals each item into T through its JSON form.
// Items whose shape does not fit are dropped.
func decodeItems[T any](items []Item) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
