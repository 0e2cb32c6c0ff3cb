// Package scoring berisi fungsi penilaian murni (tanpa side effect),
// dipakai saat submit maupun untuk re-grading / audit.
package scoring

import (
	"math"
	"strings"

	"github.com/google/uuid"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
)

// Matches = trim + case-fold, lalu bandingkan persis.
func Matches(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

// Score menilai satu soal. submitted nil / kosong = tidak dijawab (salah, 0).
func Score(q *qmodel.QuizQuestionModel, submitted *string) (bool, int) {
	if q == nil || submitted == nil {
		return false, 0
	}
	ans := strings.TrimSpace(*submitted)
	if ans == "" {
		return false, 0
	}

	switch q.QuizQuestionType {
	case qmodel.QuizQuestionTypeMultipleChoice,
		qmodel.QuizQuestionTypeTrueFalse,
		qmodel.QuizQuestionTypeShortAnswer: // short answer: exact match, tanpa partial credit
	default:
		return false, 0
	}

	if !Matches(ans, q.QuizQuestionCorrect) {
		return false, 0
	}
	return true, q.QuizQuestionPoints
}

// Result hasil Grade untuk satu attempt.
type Result struct {
	Answers    []qmodel.QuizAttemptAnswerModel
	Score      int
	TotalMarks int
	Percentage float64
}

// Grade menilai semua soal quiz terhadap map jawaban (question_id → teks).
// Soal yang tidak ada di map tetap dibuat answer-nya (unanswered).
func Grade(attemptID uuid.UUID, questions []qmodel.QuizQuestionModel, answers map[uuid.UUID]string) Result {
	res := Result{Answers: make([]qmodel.QuizAttemptAnswerModel, 0, len(questions))}

	for i := range questions {
		q := &questions[i]
		res.TotalMarks += q.QuizQuestionPoints

		var submitted *string
		if raw, ok := answers[q.QuizQuestionID]; ok {
			if t := strings.TrimSpace(raw); t != "" {
				submitted = &t
			}
		}

		isCorrect, marks := Score(q, submitted)
		res.Score += marks
		res.Answers = append(res.Answers, qmodel.QuizAttemptAnswerModel{
			QuizAttemptAnswerID:           uuid.New(),
			QuizAttemptAnswerAttemptID:    attemptID,
			QuizAttemptAnswerQuestionID:   q.QuizQuestionID,
			QuizAttemptAnswerText:         submitted,
			QuizAttemptAnswerIsCorrect:    isCorrect,
			QuizAttemptAnswerMarksAwarded: marks,
		})
	}

	res.Percentage = Percentage(res.Score, res.TotalMarks)
	return res
}

// Percentage = score / total × 100 dibulatkan 3 desimal (sama dengan kolom numeric(6,3)), 0 kalau total 0.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)*100000.0/float64(total)) / 1000.0
}
