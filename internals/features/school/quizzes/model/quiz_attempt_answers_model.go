package model

import (
	"time"

	"github.com/google/uuid"
)

// Ditulis sekali dalam transaksi submit, tidak pernah di-update.
type QuizAttemptAnswerModel struct {
	QuizAttemptAnswerID         uuid.UUID `gorm:"column:quiz_attempt_answer_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_attempt_answer_id"`
	QuizAttemptAnswerAttemptID  uuid.UUID `gorm:"column:quiz_attempt_answer_attempt_id;type:uuid;not null;uniqueIndex:uq_quiz_attempt_answer,priority:1" json:"quiz_attempt_answer_attempt_id"`
	QuizAttemptAnswerQuestionID uuid.UUID `gorm:"column:quiz_attempt_answer_question_id;type:uuid;not null;uniqueIndex:uq_quiz_attempt_answer,priority:2" json:"quiz_attempt_answer_question_id"`

	// NULL = tidak dijawab
	QuizAttemptAnswerText         *string `gorm:"column:quiz_attempt_answer_text;type:text" json:"quiz_attempt_answer_text,omitempty"`
	QuizAttemptAnswerIsCorrect    bool    `gorm:"column:quiz_attempt_answer_is_correct;not null;default:false" json:"quiz_attempt_answer_is_correct"`
	QuizAttemptAnswerMarksAwarded int     `gorm:"column:quiz_attempt_answer_marks_awarded;not null;default:0" json:"quiz_attempt_answer_marks_awarded"`

	QuizAttemptAnswerCreatedAt time.Time `gorm:"column:quiz_attempt_answer_created_at;type:timestamptz;not null;autoCreateTime" json:"quiz_attempt_answer_created_at"`
}

func (QuizAttemptAnswerModel) TableName() string { return "quiz_attempt_answers" }
