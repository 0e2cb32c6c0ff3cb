package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pendidikanku_backend/internals/features/school/quizzes/events"
	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
	"pendidikanku_backend/internals/features/school/quizzes/repository"
	"pendidikanku_backend/internals/features/school/quizzes/service"
)

var t0 = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

type quizOpts struct {
	maxAttempts *int
	duration    time.Duration
	endAt       time.Time
	shuffle     bool
	unpublished bool
}

func intPtr(n int) *int { return &n }

// newQuizBundle: MC (20 poin, "B") + short answer (10 poin, "cache").
func newQuizBundle(o quizOpts) *repository.QuizBundle {
	if o.duration == 0 {
		o.duration = 10 * time.Minute
	}
	if o.endAt.IsZero() {
		o.endAt = t0.Add(24 * time.Hour)
	}
	quizID := uuid.New()
	mc := qmodel.QuizQuestionModel{
		QuizQuestionID:      uuid.New(),
		QuizQuestionQuizID:  quizID,
		QuizQuestionOrder:   1,
		QuizQuestionType:    qmodel.QuizQuestionTypeMultipleChoice,
		QuizQuestionText:    "Struktur data untuk LIFO?",
		QuizQuestionCorrect: "B",
		QuizQuestionPoints:  20,
	}
	mc.SetOptions([]string{"A", "B", "C", "D"})
	sa := qmodel.QuizQuestionModel{
		QuizQuestionID:      uuid.New(),
		QuizQuestionQuizID:  quizID,
		QuizQuestionOrder:   2,
		QuizQuestionType:    qmodel.QuizQuestionTypeShortAnswer,
		QuizQuestionText:    "Lapisan penyimpanan sementara yang cepat?",
		QuizQuestionCorrect: "cache",
		QuizQuestionPoints:  10,
	}
	return &repository.QuizBundle{
		Quiz: qmodel.QuizModel{
			QuizID:               quizID,
			QuizSchoolID:         uuid.New(),
			QuizTitle:            "Quiz Struktur Data",
			QuizIsPublished:      !o.unpublished,
			QuizDurationSec:      int(o.duration / time.Second),
			QuizStartAt:          t0.Add(-time.Hour),
			QuizEndAt:            o.endAt,
			QuizShuffleQuestions: o.shuffle,
			QuizMaxAttempts:      o.maxAttempts,
		},
		Questions: []qmodel.QuizQuestionModel{mc, sa},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.AttemptEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.AttemptEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.RoutingKey)
	}
	return out
}

type env struct {
	quizzes   repository.QuizRepository
	attempts  repository.AttemptRepository
	publisher *recordingPublisher
	svc       *service.QuizAttemptService
}

func newEnv(t *testing.T, bundles ...*repository.QuizBundle) *env {
	t.Helper()
	return newEnvWithAttempts(t, repository.NewMemoryAttemptRepository(), bundles...)
}

func newEnvWithAttempts(t *testing.T, attempts repository.AttemptRepository, bundles ...*repository.QuizBundle) *env {
	t.Helper()
	quizzes := repository.NewMemoryQuizRepository()
	for _, b := range bundles {
		require.NoError(t, quizzes.CreateBundle(context.Background(), b))
	}
	pub := &recordingPublisher{}
	return &env{
		quizzes:   quizzes,
		attempts:  attempts,
		publisher: pub,
		svc: service.NewQuizAttemptService(
			service.NewQuestionBank(quizzes),
			attempts,
			service.WithPublisher(pub),
		),
	}
}

func answersFor(b *repository.QuizBundle, texts ...string) []service.AnswerInput {
	out := make([]service.AnswerInput, 0, len(texts))
	for i, txt := range texts {
		out = append(out, service.AnswerInput{QuestionID: b.Questions[i].QuizQuestionID, Text: txt})
	}
	return out
}
