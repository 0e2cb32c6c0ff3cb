package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizModel struct {
	QuizID       uuid.UUID  `gorm:"column:quiz_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_id"`
	QuizSchoolID uuid.UUID  `gorm:"column:quiz_school_id;type:uuid;not null;index"                 json:"quiz_school_id"`
	QuizCourseID *uuid.UUID `gorm:"column:quiz_course_id;type:uuid"                                 json:"quiz_course_id,omitempty"`

	QuizTitle       string  `gorm:"column:quiz_title;type:varchar(180);not null" json:"quiz_title"`
	QuizDescription *string `gorm:"column:quiz_description"                     json:"quiz_description,omitempty"`
	QuizIsPublished bool    `gorm:"column:quiz_is_published;not null;default:false" json:"quiz_is_published"`

	// Durasi pengerjaan per attempt (detik)
	QuizDurationSec int `gorm:"column:quiz_duration_sec;not null" json:"quiz_duration_sec"`

	// Window [start, end)
	QuizStartAt time.Time `gorm:"column:quiz_start_at;type:timestamptz;not null" json:"quiz_start_at"`
	QuizEndAt   time.Time `gorm:"column:quiz_end_at;type:timestamptz;not null"   json:"quiz_end_at"`

	QuizShuffleQuestions bool `gorm:"column:quiz_shuffle_questions;not null;default:false" json:"quiz_shuffle_questions"`
	// nil = unlimited
	QuizMaxAttempts *int `gorm:"column:quiz_max_attempts" json:"quiz_max_attempts,omitempty"`

	QuizCreatedAt time.Time      `gorm:"column:quiz_created_at;not null;autoCreateTime" json:"quiz_created_at"`
	QuizUpdatedAt time.Time      `gorm:"column:quiz_updated_at;not null;autoUpdateTime" json:"quiz_updated_at"`
	QuizDeletedAt gorm.DeletedAt `gorm:"column:quiz_deleted_at;index"                   json:"quiz_deleted_at,omitempty"`
}

func (QuizModel) TableName() string { return "quizzes" }

// IsOpenAt: now ∈ [start, end)
func (m *QuizModel) IsOpenAt(now time.Time) bool {
	return !now.Before(m.QuizStartAt) && now.Before(m.QuizEndAt)
}

// DeadlineFor menghitung must_submit_by = min(startedAt + durasi, end_at).
func (m *QuizModel) DeadlineFor(startedAt time.Time) time.Time {
	deadline := startedAt.Add(time.Duration(m.QuizDurationSec) * time.Second)
	if m.QuizEndAt.Before(deadline) {
		return m.QuizEndAt
	}
	return deadline
}
