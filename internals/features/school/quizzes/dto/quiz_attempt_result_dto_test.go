package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
	"pendidikanku_backend/internals/features/school/quizzes/service"
)

func sampleDetail(submitted bool) *service.AttemptDetail {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	q1 := qmodel.QuizQuestionModel{
		QuizQuestionID:      uuid.New(),
		QuizQuestionOrder:   5,
		QuizQuestionType:    qmodel.QuizQuestionTypeMultipleChoice,
		QuizQuestionText:    "pilih B",
		QuizQuestionCorrect: "B",
		QuizQuestionPoints:  20,
	}
	q1.SetOptions([]string{"A", "B"})
	q2 := qmodel.QuizQuestionModel{
		QuizQuestionID:      uuid.New(),
		QuizQuestionOrder:   1,
		QuizQuestionType:    qmodel.QuizQuestionTypeShortAnswer,
		QuizQuestionText:    "lapisan penyimpanan cepat?",
		QuizQuestionCorrect: "cache",
		QuizQuestionPoints:  10,
	}

	d := &service.AttemptDetail{
		Quiz: qmodel.QuizModel{QuizID: uuid.New(), QuizTitle: "Quiz"},
		Attempt: qmodel.QuizAttemptModel{
			QuizAttemptID:           uuid.New(),
			QuizAttemptNo:           1,
			QuizAttemptStatus:       qmodel.QuizAttemptInProgress,
			QuizAttemptStartedAt:    now.Add(-time.Minute),
			QuizAttemptMustSubmitBy: now.Add(90*time.Second + 200*time.Millisecond),
		},
		Questions: []qmodel.QuizQuestionModel{q1, q2},
		Now:       now,
	}
	if submitted {
		score, total, pct := 20, 30, 66.667
		at := now
		txt := "b"
		d.Attempt.QuizAttemptStatus = qmodel.QuizAttemptSubmitted
		d.Attempt.QuizAttemptSubmittedAt = &at
		d.Attempt.QuizAttemptScore = &score
		d.Attempt.QuizAttemptTotalMarks = &total
		d.Attempt.QuizAttemptPercentage = &pct
		d.Answers = []qmodel.QuizAttemptAnswerModel{{
			QuizAttemptAnswerQuestionID:   q1.QuizQuestionID,
			QuizAttemptAnswerText:         &txt,
			QuizAttemptAnswerIsCorrect:    true,
			QuizAttemptAnswerMarksAwarded: 20,
		}}
	}
	return d
}

func TestAttemptSheetHidesKeyAndScore(t *testing.T) {
	sheet := ToAttemptSheetResponse(sampleDetail(false))

	// posisi mengikuti urutan attempt, bukan order index
	require.Len(t, sheet.Questions, 2)
	assert.Equal(t, 1, sheet.Questions[0].Position)
	assert.Equal(t, 2, sheet.Questions[1].Position)
	assert.Equal(t, int64(91), sheet.SecondsRemaining)
	assert.False(t, sheet.IsExpired)

	raw, err := json.Marshal(sheet)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_answer")
	assert.NotContains(t, string(raw), "cache")
	assert.NotContains(t, string(raw), "score")
}

func TestAttemptSheetExpired(t *testing.T) {
	d := sampleDetail(false)
	d.Now = d.Attempt.QuizAttemptMustSubmitBy.Add(time.Second)

	sheet := ToAttemptSheetResponse(d)
	assert.Equal(t, int64(0), sheet.SecondsRemaining)
	assert.True(t, sheet.IsExpired)
}

func TestAttemptResultProjection(t *testing.T) {
	res := ToAttemptResultResponse(sampleDetail(true))

	assert.Equal(t, "submitted", res.Status)
	require.NotNil(t, res.Score)
	assert.Equal(t, 20, *res.Score)
	assert.False(t, res.IsExpired)

	require.Len(t, res.Questions, 2)
	assert.Equal(t, "B", res.Questions[0].CorrectAnswer)
	require.NotNil(t, res.Questions[0].IsCorrect)
	assert.True(t, *res.Questions[0].IsCorrect)
	assert.Equal(t, 20, *res.Questions[0].MarksAwarded)

	// soal tanpa jawaban tidak punya grading row
	assert.Nil(t, res.Questions[1].SubmittedText)
	assert.Nil(t, res.Questions[1].IsCorrect)
}

func TestAttemptSummaryHidesScoreUntilSubmitted(t *testing.T) {
	open := sampleDetail(false).Attempt
	done := sampleDetail(true).Attempt

	out := ToAttemptSummaryResponses([]qmodel.QuizAttemptModel{open, done})
	require.Len(t, out, 2)
	assert.Nil(t, out[0].Score)
	require.NotNil(t, out[1].Score)
	assert.Equal(t, 20, *out[1].Score)
}
