package service

import (
	"context"
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
	"pendidikanku_backend/internals/features/school/quizzes/repository"
)

/* =========================================================
   QUESTION BANK
   - soal per quiz, urut order index
   - urutan per attempt deterministik (seed dari quiz_id + attempt_id)
========================================================= */

type QuestionBank struct {
	Quizzes repository.QuizRepository
}

func NewQuestionBank(quizzes repository.QuizRepository) *QuestionBank {
	return &QuestionBank{Quizzes: quizzes}
}

// QuestionsFor mengembalikan quiz + soal (urut order index).
func (b *QuestionBank) QuestionsFor(ctx context.Context, quizID uuid.UUID) (*repository.QuizBundle, error) {
	bundle, err := b.Quizzes.GetBundle(ctx, quizID)
	if err != nil {
		return nil, fromRepo(err, ErrQuizNotFound)
	}
	return bundle, nil
}

// ShuffledFor: urutan soal untuk satu attempt.
// Shuffle off → urutan asli. Shuffle on → permutasi yang sama setiap kali dibaca.
func (b *QuestionBank) ShuffledFor(quiz *qmodel.QuizModel, questions []qmodel.QuizQuestionModel, attemptID uuid.UUID) []qmodel.QuizQuestionModel {
	out := append([]qmodel.QuizQuestionModel(nil), questions...)
	if quiz == nil || !quiz.QuizShuffleQuestions || len(out) < 2 {
		return out
	}

	s1, s2 := shuffleSeed(quiz.QuizID, attemptID)
	r := rand.New(rand.NewPCG(s1, s2))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func shuffleSeed(quizID, attemptID uuid.UUID) (uint64, uint64) {
	buf := make([]byte, 0, 32)
	buf = append(buf, quizID[:]...)
	buf = append(buf, attemptID[:]...)
	sum := blake2b.Sum256(buf)
	return binary.BigEndian.Uint64(sum[0:8]), binary.BigEndian.Uint64(sum[8:16])
}
