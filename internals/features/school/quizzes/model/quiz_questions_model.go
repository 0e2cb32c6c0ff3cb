package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizQuestionType string

const (
	QuizQuestionTypeMultipleChoice QuizQuestionType = "multiple_choice"
	QuizQuestionTypeTrueFalse      QuizQuestionType = "true_false"
	QuizQuestionTypeShortAnswer    QuizQuestionType = "short_answer"
)

type QuizQuestionModel struct {
	QuizQuestionID     uuid.UUID        `gorm:"column:quiz_question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_question_id"`
	QuizQuestionQuizID uuid.UUID        `gorm:"column:quiz_question_quiz_id;type:uuid;not null;index"                 json:"quiz_question_quiz_id"`
	QuizQuestionOrder  int              `gorm:"column:quiz_question_order;not null"                                   json:"quiz_question_order"`
	QuizQuestionType   QuizQuestionType `gorm:"column:quiz_question_type;type:varchar(20);not null"                   json:"quiz_question_type"`
	QuizQuestionText   string           `gorm:"column:quiz_question_text;type:text;not null"                          json:"quiz_question_text"`
	// ["A","B",...] untuk multiple_choice / true_false, NULL untuk short_answer
	QuizQuestionOptions datatypes.JSON `gorm:"column:quiz_question_options;type:jsonb" json:"quiz_question_options,omitempty"`
	QuizQuestionCorrect string         `gorm:"column:quiz_question_correct;type:text;not null" json:"quiz_question_correct"`
	QuizQuestionPoints  int            `gorm:"column:quiz_question_points;not null"            json:"quiz_question_points"`

	QuizQuestionCreatedAt time.Time `gorm:"column:quiz_question_created_at;autoCreateTime" json:"quiz_question_created_at"`
	QuizQuestionUpdatedAt time.Time `gorm:"column:quiz_question_updated_at;autoUpdateTime" json:"quiz_question_updated_at"`
}

func (QuizQuestionModel) TableName() string { return "quiz_questions" }

func (m *QuizQuestionModel) HasOptions() bool {
	return m.QuizQuestionType == QuizQuestionTypeMultipleChoice || m.QuizQuestionType == QuizQuestionTypeTrueFalse
}

// OptionList decode kolom jsonb options. Short answer → nil.
func (m *QuizQuestionModel) OptionList() []string {
	if len(m.QuizQuestionOptions) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(m.QuizQuestionOptions, &out); err != nil {
		return nil
	}
	return out
}

func (m *QuizQuestionModel) SetOptions(opts []string) {
	if len(opts) == 0 {
		m.QuizQuestionOptions = nil
		return
	}
	b, _ := json.Marshal(opts)
	m.QuizQuestionOptions = datatypes.JSON(b)
}

// ValidateShape → cek bentuk soal sebelum disimpan
func (m *QuizQuestionModel) ValidateShape() error {
	if strings.TrimSpace(m.QuizQuestionText) == "" {
		return errors.New("question text is required")
	}
	if m.QuizQuestionPoints <= 0 {
		return errors.New("question points must be a positive integer")
	}
	if strings.TrimSpace(m.QuizQuestionCorrect) == "" {
		return errors.New("correct answer is required")
	}

	switch m.QuizQuestionType {
	case QuizQuestionTypeShortAnswer:
		if len(m.OptionList()) != 0 {
			return errors.New("short_answer: options must be empty")
		}
		return nil
	case QuizQuestionTypeMultipleChoice, QuizQuestionTypeTrueFalse:
		opts := m.OptionList()
		if len(opts) < 2 {
			return errors.New(string(m.QuizQuestionType) + ": at least 2 options required")
		}
		if m.QuizQuestionType == QuizQuestionTypeTrueFalse && len(opts) != 2 {
			return errors.New("true_false: exactly 2 options required")
		}
		correct := strings.TrimSpace(m.QuizQuestionCorrect)
		for _, o := range opts {
			if strings.EqualFold(strings.TrimSpace(o), correct) {
				return nil
			}
		}
		return errors.New(string(m.QuizQuestionType) + ": correct answer must be one of the options")
	default:
		return errors.New("unknown question type")
	}
}
