package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
)

/* =========================================================
   IN-MEMORY (STORAGE_DRIVER=memory & test)
   Satu mutex per store → create & finalize atomik.
========================================================= */

type memoryQuizRepository struct {
	mu      sync.RWMutex
	bundles map[uuid.UUID]QuizBundle
}

func NewMemoryQuizRepository() QuizRepository {
	return &memoryQuizRepository{bundles: map[uuid.UUID]QuizBundle{}}
}

func (r *memoryQuizRepository) GetBundle(_ context.Context, quizID uuid.UUID) (*QuizBundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bundles[quizID]
	if !ok || b.Quiz.QuizDeletedAt.Valid {
		return nil, ErrNotFound
	}
	out := QuizBundle{
		Quiz:      b.Quiz,
		Questions: append([]qmodel.QuizQuestionModel(nil), b.Questions...),
	}
	return &out, nil
}

func (r *memoryQuizRepository) CreateBundle(_ context.Context, b *QuizBundle) error {
	if b == nil {
		return errors.New("bundle cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.Quiz.QuizID == uuid.Nil {
		b.Quiz.QuizID = uuid.New()
	}
	if _, exists := r.bundles[b.Quiz.QuizID]; exists {
		return ErrConflict
	}
	now := time.Now().UTC()
	b.Quiz.QuizCreatedAt, b.Quiz.QuizUpdatedAt = now, now
	for i := range b.Questions {
		q := &b.Questions[i]
		if q.QuizQuestionID == uuid.Nil {
			q.QuizQuestionID = uuid.New()
		}
		q.QuizQuestionQuizID = b.Quiz.QuizID
		q.QuizQuestionCreatedAt, q.QuizQuestionUpdatedAt = now, now
	}

	questions := append([]qmodel.QuizQuestionModel(nil), b.Questions...)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].QuizQuestionOrder < questions[j].QuizQuestionOrder
	})
	r.bundles[b.Quiz.QuizID] = QuizBundle{Quiz: b.Quiz, Questions: questions}
	return nil
}

type memoryAttemptRepository struct {
	mu       sync.Mutex
	attempts map[uuid.UUID]qmodel.QuizAttemptModel
	answers  map[uuid.UUID][]qmodel.QuizAttemptAnswerModel
}

func NewMemoryAttemptRepository() AttemptRepository {
	return &memoryAttemptRepository{
		attempts: map[uuid.UUID]qmodel.QuizAttemptModel{},
		answers:  map[uuid.UUID][]qmodel.QuizAttemptAnswerModel{},
	}
}

func (r *memoryAttemptRepository) Create(_ context.Context, a *qmodel.QuizAttemptModel, maxAttempts *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.QuizAttemptID == uuid.Nil {
		a.QuizAttemptID = uuid.New()
	}
	if _, exists := r.attempts[a.QuizAttemptID]; exists {
		return ErrConflict
	}

	n, lastNo := 0, 0
	for _, x := range r.attempts {
		if x.QuizAttemptQuizID == a.QuizAttemptQuizID && x.QuizAttemptStudentID == a.QuizAttemptStudentID {
			n++
			if x.QuizAttemptNo > lastNo {
				lastNo = x.QuizAttemptNo
			}
		}
	}
	if maxAttempts != nil && n >= *maxAttempts {
		return ErrAttemptLimit
	}

	now := time.Now().UTC()
	a.QuizAttemptNo = lastNo + 1
	a.QuizAttemptCreatedAt, a.QuizAttemptUpdatedAt = now, now
	r.attempts[a.QuizAttemptID] = *a
	return nil
}

func (r *memoryAttemptRepository) Get(_ context.Context, id uuid.UUID) (*qmodel.QuizAttemptModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *memoryAttemptRepository) CountAttempts(_ context.Context, quizID, studentID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, x := range r.attempts {
		if x.QuizAttemptQuizID == quizID && x.QuizAttemptStudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (r *memoryAttemptRepository) Finalize(_ context.Context, in FinalizeInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.attempts[in.AttemptID]
	if !ok {
		return ErrNotFound
	}
	if a.QuizAttemptStatus != qmodel.QuizAttemptInProgress {
		return ErrConflict
	}

	submittedAt := in.SubmittedAt
	score, total, pct := in.Score, in.TotalMarks, in.Percentage
	a.QuizAttemptStatus = qmodel.QuizAttemptSubmitted
	a.QuizAttemptSubmittedAt = &submittedAt
	a.QuizAttemptScore = &score
	a.QuizAttemptTotalMarks = &total
	a.QuizAttemptPercentage = &pct
	a.QuizAttemptUpdatedAt = time.Now().UTC()

	answers := make([]qmodel.QuizAttemptAnswerModel, len(in.Answers))
	for i, ans := range in.Answers {
		ans.QuizAttemptAnswerAttemptID = in.AttemptID
		if ans.QuizAttemptAnswerID == uuid.Nil {
			ans.QuizAttemptAnswerID = uuid.New()
		}
		ans.QuizAttemptAnswerCreatedAt = a.QuizAttemptUpdatedAt
		answers[i] = ans
	}

	r.attempts[in.AttemptID] = a
	r.answers[in.AttemptID] = answers
	return nil
}

func (r *memoryAttemptRepository) Answers(_ context.Context, attemptID uuid.UUID) ([]qmodel.QuizAttemptAnswerModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]qmodel.QuizAttemptAnswerModel(nil), r.answers[attemptID]...), nil
}

func (r *memoryAttemptRepository) AnswersByAttempts(_ context.Context, attemptIDs []uuid.UUID) (map[uuid.UUID][]qmodel.QuizAttemptAnswerModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uuid.UUID][]qmodel.QuizAttemptAnswerModel, len(attemptIDs))
	for _, id := range attemptIDs {
		if rows, ok := r.answers[id]; ok {
			out[id] = append([]qmodel.QuizAttemptAnswerModel(nil), rows...)
		}
	}
	return out, nil
}

func (r *memoryAttemptRepository) ListByQuiz(_ context.Context, quizID uuid.UUID) ([]qmodel.QuizAttemptModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]qmodel.QuizAttemptModel, 0)
	for _, x := range r.attempts {
		if x.QuizAttemptQuizID == quizID {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuizAttemptStartedAt.Equal(out[j].QuizAttemptStartedAt) {
			return out[i].QuizAttemptNo < out[j].QuizAttemptNo
		}
		return out[i].QuizAttemptStartedAt.Before(out[j].QuizAttemptStartedAt)
	})
	return out, nil
}

func (r *memoryAttemptRepository) ListByQuizStudent(_ context.Context, quizID, studentID uuid.UUID) ([]qmodel.QuizAttemptModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]qmodel.QuizAttemptModel, 0)
	for _, x := range r.attempts {
		if x.QuizAttemptQuizID == quizID && x.QuizAttemptStudentID == studentID {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizAttemptNo < out[j].QuizAttemptNo })
	return out, nil
}
