package dto

import "time"

// ChoiceDTO is one selectable option of a multiple choice question.
type ChoiceDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionDTO struct {
	ID      uint        `json:"id"`
	Text    string      `json:"text"`
	Type    string      `json:"type"`
	Order   int         `json:"order"`
	Choices []ChoiceDTO `json:"choices,omitempty"`
}

// FormDTO is the public rendering of a published form.
type FormDTO struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Questions   []QuestionDTO `json:"questions,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// SubmitRequestDTO carries a respondent's raw answers keyed by
// "question_<id>". Values for multiple choice questions are choice ids; any
// value that does not resolve to a choice of that question is kept verbatim
// as free text.
type SubmitRequestDTO struct {
	Answers map[string]string `json:"answers"`
}

// SubmissionReceiptDTO confirms a stored submission.
type SubmissionReceiptDTO struct {
	ResponseID  uint      `json:"response_id"`
	FormTitle   string    `json:"form_title"`
	SubmittedAt time.Time `json:"submitted_at"`
}
