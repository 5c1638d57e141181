package model

// ChallengeType names a session-construction policy controlling question
// count and filtering.
type ChallengeType string

const (
	ChallengeTimed       ChallengeType = "timed"
	ChallengeUntimed     ChallengeType = "untimed"
	ChallengeRegulations ChallengeType = "regulations"
	ChallengeSigns       ChallengeType = "signs"
	ChallengeNormal      ChallengeType = "normal"
)

// Valid reports whether t is a known challenge type.
func (t ChallengeType) Valid() bool {
	switch t {
	case ChallengeTimed, ChallengeUntimed, ChallengeRegulations, ChallengeSigns, ChallengeNormal:
		return true
	}
	return false
}

// AnsweredQuestion records a user's answer to one question slot. It is
// created exactly once per slot at submit time and immutable thereafter.
type AnsweredQuestion struct {
	QuestionID       int  `json:"question_id"`
	UserAnswer       bool `json:"user_answer"`
	IsCorrect        bool `json:"is_correct"`
	TimeSpentSeconds int  `json:"time_spent_seconds,omitempty"`
}

// Verdict is the result of resolving a submitted answer against a question.
type Verdict struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer bool   `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// StartSessionRequest is the payload for starting a quiz session.
type StartSessionRequest struct {
	Category      string `json:"category" binding:"omitempty,max=100"`
	ChallengeType string `json:"challenge_type" binding:"omitempty,oneof=timed untimed regulations signs normal"`
	SetNumber     *int   `json:"set_number" binding:"omitempty,min=1"`
	QuestionCount *int   `json:"question_count" binding:"omitempty,min=1,max=200"`
}

// SubmitAnswerRequest is the payload for answering the current slot.
type SubmitAnswerRequest struct {
	Answer           *bool `json:"answer" binding:"required"`
	TimeSpentSeconds int   `json:"time_spent_seconds" binding:"omitempty,min=0"`
}
