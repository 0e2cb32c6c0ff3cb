package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
	"pendidikanku_backend/internals/features/school/quizzes/repository"
)

func bankQuestions(n int) []qmodel.QuizQuestionModel {
	out := make([]qmodel.QuizQuestionModel, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, qmodel.QuizQuestionModel{
			QuizQuestionID:    uuid.New(),
			QuizQuestionOrder: i + 1,
			QuizQuestionText:  fmt.Sprintf("soal %d", i+1),
		})
	}
	return out
}

func ids(qs []qmodel.QuizQuestionModel) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.QuizQuestionID)
	}
	return out
}

func TestShuffledForIdentityWhenShuffleOff(t *testing.T) {
	bank := NewQuestionBank(nil)
	qs := bankQuestions(8)
	quiz := &qmodel.QuizModel{QuizID: uuid.New()}

	got := bank.ShuffledFor(quiz, qs, uuid.New())
	assert.Equal(t, ids(qs), ids(got))
}

func TestShuffledForDeterministicPerAttempt(t *testing.T) {
	bank := NewQuestionBank(nil)
	qs := bankQuestions(20)
	quiz := &qmodel.QuizModel{QuizID: uuid.New(), QuizShuffleQuestions: true}
	attemptID := uuid.New()

	first := bank.ShuffledFor(quiz, qs, attemptID)
	second := bank.ShuffledFor(quiz, qs, attemptID)
	assert.Equal(t, ids(first), ids(second))
	assert.ElementsMatch(t, ids(qs), ids(first))

	// input tidak ikut teracak
	for i := range qs {
		assert.Equal(t, i+1, qs[i].QuizQuestionOrder)
	}

	// attempt lain hampir pasti dapat urutan berbeda (20! permutasi)
	other := bank.ShuffledFor(quiz, qs, uuid.New())
	assert.NotEqual(t, ids(first), ids(other))
}

func TestShuffleSeedDependsOnQuizAndAttempt(t *testing.T) {
	q, a := uuid.New(), uuid.New()
	s1, s2 := shuffleSeed(q, a)
	r1, r2 := shuffleSeed(q, a)
	assert.Equal(t, s1, r1)
	assert.Equal(t, s2, r2)

	o1, o2 := shuffleSeed(a, q)
	assert.False(t, s1 == o1 && s2 == o2)
}

func TestQuestionsForMapsNotFound(t *testing.T) {
	bank := NewQuestionBank(repository.NewMemoryQuizRepository())
	_, err := bank.QuestionsFor(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrQuizNotFound)
	assert.Equal(t, KindQuizNotFound, KindOf(err))
}
