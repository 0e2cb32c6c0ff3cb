package model

import (
	"time"

	"github.com/google/uuid"
)

/*
=========================================================

	QUIZ ATTEMPTS
	1 row = 1 pengerjaan (student × quiz × attempt_no)
	- must_submit_by dihitung sekali saat start, tidak pernah diubah
	- in_progress → submitted hanya sekali (submitted = terminal)

=========================================================
*/

type QuizAttemptStatus string

const (
	QuizAttemptInProgress QuizAttemptStatus = "in_progress"
	QuizAttemptSubmitted  QuizAttemptStatus = "submitted"
)

type QuizAttemptModel struct {
	QuizAttemptID        uuid.UUID `gorm:"column:quiz_attempt_id;type:uuid;primaryKey" json:"quiz_attempt_id"`
	QuizAttemptQuizID    uuid.UUID `gorm:"column:quiz_attempt_quiz_id;type:uuid;not null;uniqueIndex:uq_quiz_attempt_no,priority:1" json:"quiz_attempt_quiz_id"`
	QuizAttemptStudentID uuid.UUID `gorm:"column:quiz_attempt_student_id;type:uuid;not null;uniqueIndex:uq_quiz_attempt_no,priority:2" json:"quiz_attempt_student_id"`
	QuizAttemptNo        int       `gorm:"column:quiz_attempt_no;not null;uniqueIndex:uq_quiz_attempt_no,priority:3" json:"quiz_attempt_no"`
	QuizAttemptSchoolID  uuid.UUID `gorm:"column:quiz_attempt_school_id;type:uuid;not null" json:"quiz_attempt_school_id"`

	QuizAttemptStatus QuizAttemptStatus `gorm:"column:quiz_attempt_status;type:varchar(16);not null;default:'in_progress'" json:"quiz_attempt_status"`

	QuizAttemptStartedAt    time.Time  `gorm:"column:quiz_attempt_started_at;type:timestamptz;not null"    json:"quiz_attempt_started_at"`
	QuizAttemptMustSubmitBy time.Time  `gorm:"column:quiz_attempt_must_submit_by;type:timestamptz;not null" json:"quiz_attempt_must_submit_by"`
	QuizAttemptSubmittedAt  *time.Time `gorm:"column:quiz_attempt_submitted_at;type:timestamptz"           json:"quiz_attempt_submitted_at,omitempty"`

	// Terisi hanya saat submit
	QuizAttemptScore      *int     `gorm:"column:quiz_attempt_score"                  json:"quiz_attempt_score,omitempty"`
	QuizAttemptTotalMarks *int     `gorm:"column:quiz_attempt_total_marks"            json:"quiz_attempt_total_marks,omitempty"`
	QuizAttemptPercentage *float64 `gorm:"column:quiz_attempt_percentage;type:numeric(6,3)" json:"quiz_attempt_percentage,omitempty"`

	QuizAttemptCreatedAt time.Time `gorm:"column:quiz_attempt_created_at;type:timestamptz;not null;autoCreateTime" json:"quiz_attempt_created_at"`
	QuizAttemptUpdatedAt time.Time `gorm:"column:quiz_attempt_updated_at;type:timestamptz;not null;autoUpdateTime" json:"quiz_attempt_updated_at"`
}

func (QuizAttemptModel) TableName() string { return "quiz_attempts" }

func (m *QuizAttemptModel) IsSubmitted() bool { return m.QuizAttemptStatus == QuizAttemptSubmitted }

// IsExpiredAt dievaluasi lazy (tidak ada timer).
func (m *QuizAttemptModel) IsExpiredAt(now time.Time) bool {
	return now.After(m.QuizAttemptMustSubmitBy)
}

// IsLate: submit setelah must_submit_by (tetap diterima).
func (m *QuizAttemptModel) IsLate() bool {
	return m.QuizAttemptSubmittedAt != nil && m.QuizAttemptSubmittedAt.After(m.QuizAttemptMustSubmitBy)
}
