package dto

import (
	"math"
	"time"

	"github.com/google/uuid"

	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
	"pendidikanku_backend/internals/features/school/quizzes/service"
)

/*
=========================================================

	PROJECTOR
	- AttemptSheetResponse  : lembar soal student (TANPA kunci jawaban & skor)
	- AttemptResultResponse : hasil (student setelah submit / staff)
	- AttemptSummaryResponse: ringkasan list attempt

=========================================================
*/

type QuestionSheetItem struct {
	QuestionID uuid.UUID `json:"question_id"`
	// posisi dalam attempt (1-based), bukan order index asli
	Position int      `json:"position"`
	Type     string   `json:"type"`
	Text     string   `json:"text"`
	Options  []string `json:"options,omitempty"`
	Points   int      `json:"points"`
}

type AttemptSheetResponse struct {
	AttemptID        uuid.UUID           `json:"attempt_id"`
	QuizID           uuid.UUID           `json:"quiz_id"`
	QuizTitle        string              `json:"quiz_title"`
	AttemptNo        int                 `json:"attempt_no"`
	Status           string              `json:"status"`
	StartedAt        time.Time           `json:"started_at"`
	MustSubmitBy     time.Time           `json:"must_submit_by"`
	SecondsRemaining int64               `json:"seconds_remaining"`
	IsExpired        bool                `json:"is_expired"`
	Questions        []QuestionSheetItem `json:"questions"`
}

func secondsRemaining(deadline, now time.Time) int64 {
	left := deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	return int64(math.Ceil(left.Seconds()))
}

func toSheetItem(q *qmodel.QuizQuestionModel, pos int) QuestionSheetItem {
	return QuestionSheetItem{
		QuestionID: q.QuizQuestionID,
		Position:   pos,
		Type:       string(q.QuizQuestionType),
		Text:       q.QuizQuestionText,
		Options:    q.OptionList(),
		Points:     q.QuizQuestionPoints,
	}
}

func ToAttemptSheetResponse(d *service.AttemptDetail) AttemptSheetResponse {
	a := &d.Attempt
	out := AttemptSheetResponse{
		AttemptID:        a.QuizAttemptID,
		QuizID:           a.QuizAttemptQuizID,
		QuizTitle:        d.Quiz.QuizTitle,
		AttemptNo:        a.QuizAttemptNo,
		Status:           string(a.QuizAttemptStatus),
		StartedAt:        a.QuizAttemptStartedAt,
		MustSubmitBy:     a.QuizAttemptMustSubmitBy,
		SecondsRemaining: secondsRemaining(a.QuizAttemptMustSubmitBy, d.Now),
		IsExpired:        a.IsExpiredAt(d.Now),
		Questions:        make([]QuestionSheetItem, 0, len(d.Questions)),
	}
	for i := range d.Questions {
		out.Questions = append(out.Questions, toSheetItem(&d.Questions[i], i+1))
	}
	return out
}

/* ===================== RESULT ===================== */

type ResultQuestionItem struct {
	QuestionSheetItem
	CorrectAnswer string  `json:"correct_answer"`
	SubmittedText *string `json:"submitted_text"`
	// nil selama attempt belum disubmit
	IsCorrect    *bool `json:"is_correct"`
	MarksAwarded *int  `json:"marks_awarded"`
}

type AttemptResultResponse struct {
	AttemptID    uuid.UUID  `json:"attempt_id"`
	QuizID       uuid.UUID  `json:"quiz_id"`
	QuizTitle    string     `json:"quiz_title"`
	StudentID    uuid.UUID  `json:"student_id"`
	AttemptNo    int        `json:"attempt_no"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	MustSubmitBy time.Time  `json:"must_submit_by"`
	SubmittedAt  *time.Time `json:"submitted_at"`
	IsLate       bool       `json:"is_late"`
	IsExpired    bool       `json:"is_expired"`

	Score      *int     `json:"score"`
	TotalMarks *int     `json:"total_marks"`
	Percentage *float64 `json:"percentage"`

	Questions []ResultQuestionItem `json:"questions"`
}

func ToAttemptResultResponse(d *service.AttemptDetail) AttemptResultResponse {
	a := &d.Attempt
	out := AttemptResultResponse{
		AttemptID:    a.QuizAttemptID,
		QuizID:       a.QuizAttemptQuizID,
		QuizTitle:    d.Quiz.QuizTitle,
		StudentID:    a.QuizAttemptStudentID,
		AttemptNo:    a.QuizAttemptNo,
		Status:       string(a.QuizAttemptStatus),
		StartedAt:    a.QuizAttemptStartedAt,
		MustSubmitBy: a.QuizAttemptMustSubmitBy,
		SubmittedAt:  a.QuizAttemptSubmittedAt,
		IsLate:       a.IsLate(),
		IsExpired:    !a.IsSubmitted() && a.IsExpiredAt(d.Now),
		Score:        a.QuizAttemptScore,
		TotalMarks:   a.QuizAttemptTotalMarks,
		Percentage:   a.QuizAttemptPercentage,
		Questions:    make([]ResultQuestionItem, 0, len(d.Questions)),
	}

	byQuestion := make(map[uuid.UUID]*qmodel.QuizAttemptAnswerModel, len(d.Answers))
	for i := range d.Answers {
		byQuestion[d.Answers[i].QuizAttemptAnswerQuestionID] = &d.Answers[i]
	}

	for i := range d.Questions {
		q := &d.Questions[i]
		item := ResultQuestionItem{
			QuestionSheetItem: toSheetItem(q, i+1),
			CorrectAnswer:     q.QuizQuestionCorrect,
		}
		if ans, ok := byQuestion[q.QuizQuestionID]; ok {
			isCorrect, marks := ans.QuizAttemptAnswerIsCorrect, ans.QuizAttemptAnswerMarksAwarded
			item.SubmittedText = ans.QuizAttemptAnswerText
			item.IsCorrect = &isCorrect
			item.MarksAwarded = &marks
		}
		out.Questions = append(out.Questions, item)
	}
	return out
}

/* ===================== SUMMARY ===================== */

type AttemptSummaryResponse struct {
	AttemptID    uuid.UUID  `json:"attempt_id"`
	AttemptNo    int        `json:"attempt_no"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	MustSubmitBy time.Time  `json:"must_submit_by"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	IsLate       bool       `json:"is_late"`
	Score        *int       `json:"score,omitempty"`
	TotalMarks   *int       `json:"total_marks,omitempty"`
	Percentage   *float64   `json:"percentage,omitempty"`
}

func ToAttemptSummaryResponses(list []qmodel.QuizAttemptModel) []AttemptSummaryResponse {
	out := make([]AttemptSummaryResponse, 0, len(list))
	for i := range list {
		a := &list[i]
		s := AttemptSummaryResponse{
			AttemptID:    a.QuizAttemptID,
			AttemptNo:    a.QuizAttemptNo,
			Status:       string(a.QuizAttemptStatus),
			StartedAt:    a.QuizAttemptStartedAt,
			MustSubmitBy: a.QuizAttemptMustSubmitBy,
			SubmittedAt:  a.QuizAttemptSubmittedAt,
			IsLate:       a.IsLate(),
		}
		// skor hanya untuk attempt yang sudah submit
		if a.IsSubmitted() {
			s.Score, s.TotalMarks, s.Percentage = a.QuizAttemptScore, a.QuizAttemptTotalMarks, a.QuizAttemptPercentage
		}
		out = append(out, s)
	}
	return out
}

/* ===================== INSTRUCTOR ===================== */

type InstructorViewResponse struct {
	Quiz     QuizResponse            `json:"quiz"`
	Attempts []AttemptResultResponse `json:"attempts"`
}

// ToInstructorViewResponse: v.Attempts sudah satu halaman (dipotong di service).
func ToInstructorViewResponse(v *service.InstructorView) InstructorViewResponse {
	out := InstructorViewResponse{
		Quiz:     ToQuizResponse(&v.Quiz, v.Questions),
		Attempts: make([]AttemptResultResponse, 0, len(v.Attempts)),
	}
	for i := range v.Attempts {
		out.Attempts = append(out.Attempts, ToAttemptResultResponse(&v.Attempts[i]))
	}
	return out
}
