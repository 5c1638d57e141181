package model

// Question categories for the Japanese driving test.
// Karimen is the learner's permit exam, HonMen the full license exam.
// Arbitrary category strings are accepted for admin-authored questions.
const (
	CategoryKarimen = "Karimen"
	CategoryHonMen  = "HonMen"
)

// FreeQuestionLimit is the per-category index threshold beyond which
// questions are premium and require a social unlock.
const FreeQuestionLimit = 50

// Question represents a single true/false driving-test question.
// Questions are immutable once captured inside a quiz session: sessions
// hold a snapshot, so admin edits never affect a run in progress.
type Question struct {
	ID          int     `json:"id"`
	Text        string  `json:"question_text"`
	Answer      bool    `json:"answer"`
	Explanation string  `json:"explanation"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsPremium   bool    `json:"is_premium"`
}

// QuestionForUser is a question without the correct answer or explanation,
// as served to an active quiz session.
type QuestionForUser struct {
	ID       int     `json:"id"`
	Text     string  `json:"question_text"`
	Category string  `json:"category"`
	ImageURL *string `json:"image_url,omitempty"`
}

// ForUser strips the answer and explanation for delivery to a client.
func (q Question) ForUser() QuestionForUser {
	return QuestionForUser{
		ID:       q.ID,
		Text:     q.Text,
		Category: q.Category,
		ImageURL: q.ImageURL,
	}
}

// CreateQuestionRequest is the payload for creating a question.
type CreateQuestionRequest struct {
	Text        string  `json:"question_text" binding:"required,min=1,max=2000"`
	Answer      *bool   `json:"answer" binding:"required"`
	Explanation string  `json:"explanation" binding:"required,min=1,max=2000"`
	Category    string  `json:"category" binding:"required,min=1,max=100"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
	IsPremium   bool    `json:"is_premium"`
}

// UpdateQuestionRequest is the payload for updating an existing question.
type UpdateQuestionRequest struct {
	Text        string  `json:"question_text" binding:"omitempty,min=1,max=2000"`
	Answer      *bool   `json:"answer" binding:"omitempty"`
	Explanation string  `json:"explanation" binding:"omitempty,min=1,max=2000"`
	Category    string  `json:"category" binding:"omitempty,min=1,max=100"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
	IsPremium   *bool   `json:"is_premium" binding:"omitempty"`
}

// ImportQuestionsRequest is the payload for bulk importing questions.
type ImportQuestionsRequest struct {
	Questions []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// CategoryCount pairs a category name with its question count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
