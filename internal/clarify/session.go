package clarify

import (
	"strings"

	"github.com/kwhalen/escalation-helper/internal/confidence"
)

// Status tracks where a clarification episode stands.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusAwaiting Status = "awaiting_clarification"
	StatusResolved Status = "resolved"
)

// Session is the per-conversation clarification state. It is an explicit
// value passed into and returned from each turn; nothing here touches global
// state, which keeps the machine trivially unit-testable.
type Session struct {
	OriginalQuery string
	Category      Category
	Status        Status
	TurnsElapsed  int

	// Replies accumulates clarification answers so the merged query keeps
	// all signal from every turn.
	Replies []string

	// LowConfidence marks a session that resolved by exhausting its turn
	// budget rather than by clearing the confidence gate. Callers should
	// present such results with a disclaimer.
	LowConfidence bool
}

// Begin starts a clarification episode for a query whose retrieval came back
// below the confidence bar. It classifies the query, records it, and returns
// the session together with the first clarifying question.
func Begin(query string) (Session, string) {
	category := Detect(query)
	s := Session{
		OriginalQuery: query,
		Category:      category,
		Status:        StatusAwaiting,
		TurnsElapsed:  1,
	}
	return s, Question(category, 1)
}

// WithReply records a user reply and returns the merged query to re-retrieve
// with. The merge policy is plain concatenation: the original query plus every
// reply, space-separated, preserving all signal for re-embedding.
func (s Session) WithReply(reply string) (Session, string) {
	reply = strings.TrimSpace(reply)
	if reply != "" {
		replies := make([]string, 0, len(s.Replies)+1)
		replies = append(replies, s.Replies...)
		replies = append(replies, reply)
		s.Replies = replies
	}
	return s, s.MergedQuery()
}

// MergedQuery is the original query concatenated with all replies so far.
func (s Session) MergedQuery() string {
	if len(s.Replies) == 0 {
		return s.OriginalQuery
	}
	return s.OriginalQuery + " " + strings.Join(s.Replies, " ")
}

// CurrentQuestion returns the question for the current turn, used to re-ask
// after an empty reply. Non-answers never consume a turn.
func (s Session) CurrentQuestion() string {
	return Question(s.Category, s.TurnsElapsed)
}

// Advance applies the confidence outcome of the merged-query retrieval.
// It returns the next session state and a follow-up question, which is empty
// once the session has resolved. A session that is still insufficient after
// maxTurns resolves anyway with LowConfidence set, so the dialog always
// terminates.
func (s Session) Advance(level confidence.Level, maxTurns int) (Session, string) {
	if s.Status != StatusAwaiting {
		return s, ""
	}

	if level == confidence.Sufficient {
		s.Status = StatusResolved
		return s, ""
	}

	if s.TurnsElapsed >= maxTurns {
		s.Status = StatusResolved
		s.LowConfidence = true
		return s, ""
	}

	s.TurnsElapsed++
	return s, Question(s.Category, s.TurnsElapsed)
}

// Reset returns an idle session for a new, unrelated query.
func (s Session) Reset() Session {
	return Session{Status: StatusIdle}
}

// Active reports whether the session is waiting on a clarification reply.
func (s Session) Active() bool {
	return s.Status == StatusAwaiting
}
