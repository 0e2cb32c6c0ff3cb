package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
)

// QuizBundle = quiz + soal-soalnya (urut by order).
type QuizBundle struct {
	Quiz      qmodel.QuizModel           `json:"quiz"`
	Questions []qmodel.QuizQuestionModel `json:"questions"`
}

// QuizRepository: read API bank soal + create sederhana untuk authoring.
type QuizRepository interface {
	GetBundle(ctx context.Context, quizID uuid.UUID) (*QuizBundle, error)
	CreateBundle(ctx context.Context, b *QuizBundle) error
}

type gormQuizRepository struct {
	db *gorm.DB
}

func NewGormQuizRepository(db *gorm.DB) QuizRepository {
	return &gormQuizRepository{db: db}
}

func (r *gormQuizRepository) GetBundle(ctx context.Context, quizID uuid.UUID) (*QuizBundle, error) {
	var quiz qmodel.QuizModel
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		First(&quiz).Error; err != nil {
		return nil, classify(err)
	}

	var questions []qmodel.QuizQuestionModel
	if err := r.db.WithContext(ctx).
		Where("quiz_question_quiz_id = ?", quizID).
		Order("quiz_question_order ASC, quiz_question_id ASC").
		Find(&questions).Error; err != nil {
		return nil, classify(err)
	}

	return &QuizBundle{Quiz: quiz, Questions: questions}, nil
}

func (r *gormQuizRepository) CreateBundle(ctx context.Context, b *QuizBundle) error {
	if b == nil {
		return errors.New("bundle cannot be nil")
	}
	if b.Quiz.QuizID == uuid.Nil {
		b.Quiz.QuizID = uuid.New()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&b.Quiz).Error; err != nil {
			return err
		}
		for i := range b.Questions {
			q := &b.Questions[i]
			if q.QuizQuestionID == uuid.Nil {
				q.QuizQuestionID = uuid.New()
			}
			q.QuizQuestionQuizID = b.Quiz.QuizID
		}
		if len(b.Questions) == 0 {
			return nil
		}
		return tx.CreateInBatches(&b.Questions, 100).Error
	})
	return classify(err)
}
