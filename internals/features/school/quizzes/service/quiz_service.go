package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pendidikanku_backend/internals/features/school/quizzes/repository"
)

// QuizService: authoring sederhana (buat quiz + soal, baca dengan kunci jawaban).
// Tidak ada update: quiz dianggap immutable setelah dibuat.
type QuizService struct {
	quizzes repository.QuizRepository
}

func NewQuizService(quizzes repository.QuizRepository) *QuizService {
	return &QuizService{quizzes: quizzes}
}

func (s *QuizService) CreateQuiz(ctx context.Context, b *repository.QuizBundle, req Requester) error {
	if !req.IsStaffOf(b.Quiz.QuizSchoolID) {
		return ErrUnauthorized
	}
	if err := validateBundle(b); err != nil {
		return err
	}
	if err := s.quizzes.CreateBundle(ctx, b); err != nil {
		return fromRepo(err, ErrQuizNotFound)
	}
	return nil
}

func (s *QuizService) GetQuiz(ctx context.Context, quizID uuid.UUID, req Requester) (*repository.QuizBundle, error) {
	b, err := s.quizzes.GetBundle(ctx, quizID)
	if err != nil {
		return nil, fromRepo(err, ErrQuizNotFound)
	}
	if !req.IsStaffOf(b.Quiz.QuizSchoolID) {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func validateBundle(b *repository.QuizBundle) error {
	q := &b.Quiz
	switch {
	case strings.TrimSpace(q.QuizTitle) == "":
		return invalidQuiz("quiz_title wajib diisi")
	case q.QuizDurationSec <= 0:
		return invalidQuiz("quiz_duration_sec harus > 0")
	case !q.QuizEndAt.After(q.QuizStartAt):
		return invalidQuiz("quiz_end_at harus setelah quiz_start_at")
	case q.QuizMaxAttempts != nil && *q.QuizMaxAttempts < 1:
		return invalidQuiz("quiz_max_attempts minimal 1")
	case len(b.Questions) == 0:
		return invalidQuiz("quiz minimal punya 1 soal")
	}

	for i := range b.Questions {
		if err := b.Questions[i].ValidateShape(); err != nil {
			return invalidQuiz(fmt.Sprintf("questions[%d]: %v", i, err))
		}
	}
	return nil
}
