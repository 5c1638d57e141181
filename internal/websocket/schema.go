package websocket

import "github.com/menkyoquiz/menkyo-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer  Action = "answer"
	ActionAdvance Action = "advance"
	ActionPing    Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest is sent by the client to answer the current question.
type AnswerRequest struct {
	Action           Action `json:"action"`
	Answer           *bool  `json:"answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// AdvanceRequest is sent by the client to move to the next question.
type AdvanceRequest struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventFeedback  Event = "feedback"
	EventAdvanced  Event = "advanced"
	EventCompleted Event = "completed"
	EventTick      Event = "tick"
	EventTimesUp   Event = "times_up"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// FeedbackResponse carries the verdict for an answered question.
type FeedbackResponse struct {
	Event   Event         `json:"event"`
	Verdict model.Verdict `json:"verdict"`
	Score   int           `json:"score"`
}

// AdvancedResponse carries the next question after an advance.
type AdvancedResponse struct {
	Event        Event                  `json:"event"`
	CurrentIndex int                    `json:"current_index"`
	Question     *model.QuestionForUser `json:"question,omitempty"`
}

// CompletedResponse is the terminal event with the session summary.
type CompletedResponse struct {
	Event   Event                `json:"event"`
	Summary model.SessionSummary `json:"summary"`
}

// TickResponse is sent once per second on timed challenges.
type TickResponse struct {
	Event            Event `json:"event"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// TimesUpResponse ends a timed challenge whose countdown ran out.
type TimesUpResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
