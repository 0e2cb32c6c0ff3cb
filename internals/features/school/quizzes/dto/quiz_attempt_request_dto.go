package dto

import (
	"strings"

	"github.com/google/uuid"

	"pendidikanku_backend/internals/features/school/quizzes/service"
)

/* =========================================================
   REQUEST: SUBMIT
   POST /api/u/quizzes/submit
========================================================= */

type SubmitAnswerItem struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	AnswerText string    `json:"answer_text" validate:"max=5000"`
}

type SubmitAttemptRequest struct {
	AttemptID uuid.UUID          `json:"attempt_id" validate:"required"`
	Answers   []SubmitAnswerItem `json:"answers"    validate:"max=500,dive"`
}

// ToInputs: urutan dipertahankan (question_id dobel → yang terakhir menang di service).
func (r *SubmitAttemptRequest) ToInputs() []service.AnswerInput {
	out := make([]service.AnswerInput, 0, len(r.Answers))
	for _, a := range r.Answers {
		out = append(out, service.AnswerInput{
			QuestionID: a.QuestionID,
			Text:       strings.TrimSpace(a.AnswerText),
		})
	}
	return out
}
