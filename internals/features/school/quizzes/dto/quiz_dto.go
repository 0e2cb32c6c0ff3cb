package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
	"pendidikanku_backend/internals/features/school/quizzes/repository"
)

/* =========================================================
   REQUEST: CREATE QUIZ (teacher)
========================================================= */

type CreateQuizQuestionRequest struct {
	Order         int      `json:"order"          validate:"gte=0"`
	Type          string   `json:"type"           validate:"required,oneof=multiple_choice true_false short_answer"`
	Text          string   `json:"text"           validate:"required"`
	Options       []string `json:"options"        validate:"max=20,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Points        int      `json:"points"         validate:"required,gt=0"`
}

type CreateQuizRequest struct {
	SchoolID         uuid.UUID  `json:"school_id"   validate:"required"`
	CourseID         *uuid.UUID `json:"course_id"`
	Title            string     `json:"title"       validate:"required,max=180"`
	Description      *string    `json:"description"`
	IsPublished      bool       `json:"is_published"`
	DurationSec      int        `json:"duration_sec" validate:"required,gt=0"`
	StartAt          time.Time  `json:"start_at"    validate:"required"`
	EndAt            time.Time  `json:"end_at"      validate:"required,gtfield=StartAt"`
	ShuffleQuestions bool       `json:"shuffle_questions"`
	MaxAttempts      *int       `json:"max_attempts" validate:"omitempty,gte=1"`

	Questions []CreateQuizQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

func (r *CreateQuizRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d == "" {
			r.Description = nil
		} else {
			r.Description = &d
		}
	}
	for i := range r.Questions {
		q := &r.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
	}
}

func (r *CreateQuizRequest) ToBundle() *repository.QuizBundle {
	b := &repository.QuizBundle{
		Quiz: qmodel.QuizModel{
			QuizID:               uuid.New(),
			QuizSchoolID:         r.SchoolID,
			QuizCourseID:         r.CourseID,
			QuizTitle:            r.Title,
			QuizDescription:      r.Description,
			QuizIsPublished:      r.IsPublished,
			QuizDurationSec:      r.DurationSec,
			QuizStartAt:          r.StartAt.UTC(),
			QuizEndAt:            r.EndAt.UTC(),
			QuizShuffleQuestions: r.ShuffleQuestions,
			QuizMaxAttempts:      r.MaxAttempts,
		},
		Questions: make([]qmodel.QuizQuestionModel, 0, len(r.Questions)),
	}

	for i, q := range r.Questions {
		order := q.Order
		if order == 0 {
			order = i + 1
		}
		m := qmodel.QuizQuestionModel{
			QuizQuestionID:      uuid.New(),
			QuizQuestionQuizID:  b.Quiz.QuizID,
			QuizQuestionOrder:   order,
			QuizQuestionType:    qmodel.QuizQuestionType(q.Type),
			QuizQuestionText:    q.Text,
			QuizQuestionCorrect: q.CorrectAnswer,
			QuizQuestionPoints:  q.Points,
		}
		m.SetOptions(q.Options)
		b.Questions = append(b.Questions, m)
	}
	return b
}

/* =========================================================
   RESPONSE: QUIZ (staff, termasuk kunci jawaban)
========================================================= */

type QuizQuestionResponse struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Order         int       `json:"order"`
	Type          string    `json:"type"`
	Text          string    `json:"text"`
	Options       []string  `json:"options,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
	Points        int       `json:"points"`
}

type QuizResponse struct {
	QuizID           uuid.UUID  `json:"quiz_id"`
	SchoolID         uuid.UUID  `json:"school_id"`
	CourseID         *uuid.UUID `json:"course_id,omitempty"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	IsPublished      bool       `json:"is_published"`
	DurationSec      int        `json:"duration_sec"`
	StartAt          time.Time  `json:"start_at"`
	EndAt            time.Time  `json:"end_at"`
	ShuffleQuestions bool       `json:"shuffle_questions"`
	MaxAttempts      *int       `json:"max_attempts,omitempty"`
	TotalMarks       int        `json:"total_marks"`

	Questions []QuizQuestionResponse `json:"questions"`
}

func ToQuizResponse(q *qmodel.QuizModel, questions []qmodel.QuizQuestionModel) QuizResponse {
	out := QuizResponse{
		QuizID:           q.QuizID,
		SchoolID:         q.QuizSchoolID,
		CourseID:         q.QuizCourseID,
		Title:            q.QuizTitle,
		Description:      q.QuizDescription,
		IsPublished:      q.QuizIsPublished,
		DurationSec:      q.QuizDurationSec,
		StartAt:          q.QuizStartAt,
		EndAt:            q.QuizEndAt,
		ShuffleQuestions: q.QuizShuffleQuestions,
		MaxAttempts:      q.QuizMaxAttempts,
		Questions:        make([]QuizQuestionResponse, 0, len(questions)),
	}
	for i := range questions {
		x := &questions[i]
		out.TotalMarks += x.QuizQuestionPoints
		out.Questions = append(out.Questions, QuizQuestionResponse{
			QuestionID:    x.QuizQuestionID,
			Order:         x.QuizQuestionOrder,
			Type:          string(x.QuizQuestionType),
			Text:          x.QuizQuestionText,
			Options:       x.OptionList(),
			CorrectAnswer: x.QuizQuestionCorrect,
			Points:        x.QuizQuestionPoints,
		})
	}
	return out
}
