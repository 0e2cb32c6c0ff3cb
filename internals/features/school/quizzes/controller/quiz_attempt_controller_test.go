package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pendidikanku_backend/internals/features/school/quizzes/controller"
	qmodel "pendidikanku_backend/internals/features/school/quizzes/model"
	"pendidikanku_backend/internals/features/school/quizzes/repository"
	quizRoute "pendidikanku_backend/internals/features/school/quizzes/route"
	"pendidikanku_backend/internals/features/school/quizzes/service"
	middleware "pendidikanku_backend/internals/middlewares/auth_school"
	featuresMiddleware "pendidikanku_backend/internals/middlewares/features"
)

const testSecret = "test-secret"

var t0 = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	ErrorCode  string              `json:"error_code"`
	Errors     map[string][]string `json:"errors"`
	Data       json.RawMessage     `json:"data"`
	Pagination *struct {
		Page    int   `json:"page"`
		PerPage int   `json:"per_page"`
		Total   int64 `json:"total"`
		HasNext bool  `json:"has_next"`
		Count   int   `json:"count"`
	} `json:"pagination"`
}

type testApp struct {
	app    *fiber.App
	bundle *repository.QuizBundle
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	quizzes := repository.NewMemoryQuizRepository()
	mc := qmodel.QuizQuestionModel{
		QuizQuestionOrder:   1,
		QuizQuestionType:    qmodel.QuizQuestionTypeMultipleChoice,
		QuizQuestionText:    "Struktur data untuk LIFO?",
		QuizQuestionCorrect: "B",
		QuizQuestionPoints:  20,
	}
	mc.SetOptions([]string{"A", "B", "C"})
	bundle := &repository.QuizBundle{
		Quiz: qmodel.QuizModel{
			QuizSchoolID:    uuid.New(),
			QuizTitle:       "Quiz HTTP",
			QuizIsPublished: true,
			QuizDurationSec: 600,
			QuizStartAt:     t0.Add(-time.Hour),
			QuizEndAt:       t0.Add(time.Hour),
		},
		Questions: []qmodel.QuizQuestionModel{mc, {
			QuizQuestionOrder:   2,
			QuizQuestionType:    qmodel.QuizQuestionTypeShortAnswer,
			QuizQuestionText:    "Lapisan penyimpanan cepat?",
			QuizQuestionCorrect: "cache",
			QuizQuestionPoints:  10,
		}},
	}
	require.NoError(t, quizzes.CreateBundle(context.Background(), bundle))

	attemptsSvc := service.NewQuizAttemptService(service.NewQuestionBank(quizzes), repository.NewMemoryAttemptRepository())
	attemptsCtrl := controller.NewQuizAttemptController(attemptsSvc)
	attemptsCtrl.Now = func() time.Time { return t0 }
	quizCtrl := controller.NewQuizController(service.NewQuizService(quizzes))

	app := fiber.New()
	auth := middleware.AuthJWT(middleware.AuthJWTOpts{Secret: testSecret})
	noLimit := func(c *fiber.Ctx) error { return c.Next() }

	quizRoute.QuizUserRoutes(app.Group("/api/u", auth), attemptsCtrl, noLimit)
	quizRoute.QuizTeacherRoutes(app.Group("/api/t", auth, featuresMiddleware.IsSchoolStaff("quiz")), quizCtrl, attemptsCtrl)

	return &testApp{app: app, bundle: bundle}
}

func studentToken(t *testing.T, id uuid.UUID) string {
	t.Helper()
	return sign(t, jwt.MapClaims{"id": id.String(), "roles_global": []string{"student"}})
}

func teacherToken(t *testing.T, schoolID uuid.UUID) string {
	t.Helper()
	return sign(t, jwt.MapClaims{
		"id": uuid.NewString(),
		"school_roles": []any{
			map[string]any{"school_id": schoolID.String(), "roles": []string{"teacher"}},
		},
	})
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (int, envelope, string) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env, string(raw)
}

func TestAttemptLifecycleOverHTTP(t *testing.T) {
	a := newTestApp(t)
	student := uuid.New()
	tok := studentToken(t, student)
	quizID := a.bundle.Quiz.QuizID

	status, env, raw := a.do(t, http.MethodPost, fmt.Sprintf("/api/u/quizzes/%s/start", quizID), tok, nil)
	require.Equal(t, http.StatusCreated, status, raw)
	assert.NotContains(t, raw, "correct_answer")
	assert.NotContains(t, raw, "\"score\"")

	var sheet struct {
		AttemptID        uuid.UUID `json:"attempt_id"`
		AttemptNo        int       `json:"attempt_no"`
		SecondsRemaining int64     `json:"seconds_remaining"`
		Questions        []struct {
			QuestionID uuid.UUID `json:"question_id"`
			Position   int       `json:"position"`
			Options    []string  `json:"options"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sheet))
	assert.Equal(t, 1, sheet.AttemptNo)
	assert.Equal(t, int64(600), sheet.SecondsRemaining)
	require.Len(t, sheet.Questions, 2)
	assert.Equal(t, []string{"A", "B", "C"}, sheet.Questions[0].Options)

	resultPath := fmt.Sprintf("/api/u/quizzes/attempts/%s", sheet.AttemptID)

	status, env, _ = a.do(t, http.MethodGet, resultPath, tok, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "RESULT_NOT_AVAILABLE", env.ErrorCode)

	status, env, _ = a.do(t, http.MethodGet, resultPath+"/questions", tok, nil)
	assert.Equal(t, http.StatusOK, status)

	submit := map[string]any{
		"attempt_id": sheet.AttemptID,
		"answers": []map[string]any{
			{"question_id": a.bundle.Questions[0].QuizQuestionID, "answer_text": "b"},
			{"question_id": a.bundle.Questions[1].QuizQuestionID, "answer_text": "  CACHE "},
		},
	}
	status, env, raw = a.do(t, http.MethodPost, "/api/u/quizzes/submit", tok, submit)
	require.Equal(t, http.StatusOK, status, raw)

	var result struct {
		Status     string   `json:"status"`
		Score      *int     `json:"score"`
		TotalMarks *int     `json:"total_marks"`
		Percentage *float64 `json:"percentage"`
		IsLate     bool     `json:"is_late"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "submitted", result.Status)
	require.NotNil(t, result.Score)
	assert.Equal(t, 30, *result.Score)
	assert.Equal(t, 30, *result.TotalMarks)
	assert.InDelta(t, 100.0, *result.Percentage, 0.001)
	assert.False(t, result.IsLate)

	status, env, _ = a.do(t, http.MethodPost, "/api/u/quizzes/submit", tok, submit)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ATTEMPT_ALREADY_SUBMITTED", env.ErrorCode)

	status, env, raw = a.do(t, http.MethodGet, resultPath, tok, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, raw, "correct_answer")

	status, env, _ = a.do(t, http.MethodGet, resultPath, studentToken(t, uuid.New()), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "UNAUTHORIZED", env.ErrorCode)

	teacher := teacherToken(t, a.bundle.Quiz.QuizSchoolID)
	status, _, _ = a.do(t, http.MethodGet, fmt.Sprintf("/api/t/quizzes/attempts/%s", sheet.AttemptID), teacher, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env, _ = a.do(t, http.MethodGet, fmt.Sprintf("/api/u/quizzes/%s/attempts", quizID), tok, nil)
	assert.Equal(t, http.StatusOK, status)
	var mine []struct {
		AttemptNo int  `json:"attempt_no"`
		Score     *int `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, 30, *mine[0].Score)
}

func TestAttemptErrorsOverHTTP(t *testing.T) {
	a := newTestApp(t)
	tok := studentToken(t, uuid.New())

	t.Run("no token", func(t *testing.T) {
		status, _, _ := a.do(t, http.MethodPost, fmt.Sprintf("/api/u/quizzes/%s/start", a.bundle.Quiz.QuizID), "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("bad signature", func(t *testing.T) {
		bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": uuid.NewString()}).
			SignedString([]byte("other-secret"))
		require.NoError(t, err)
		status, _, _ := a.do(t, http.MethodPost, fmt.Sprintf("/api/u/quizzes/%s/start", a.bundle.Quiz.QuizID), bad, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("malformed id", func(t *testing.T) {
		status, _, _ := a.do(t, http.MethodPost, "/api/u/quizzes/not-a-uuid/start", tok, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		status, env, _ := a.do(t, http.MethodPost, fmt.Sprintf("/api/u/quizzes/%s/start", uuid.New()), tok, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "QUIZ_NOT_FOUND", env.ErrorCode)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		status, env, _ := a.do(t, http.MethodPost, "/api/u/quizzes/submit", tok, map[string]any{
			"attempt_id": uuid.New(),
			"answers":    []any{},
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "ATTEMPT_NOT_FOUND", env.ErrorCode)
	})

	t.Run("submit validation", func(t *testing.T) {
		status, env, _ := a.do(t, http.MethodPost, "/api/u/quizzes/submit", tok, map[string]any{"answers": []any{}})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
		assert.NotEmpty(t, env.Errors)
	})

	t.Run("student blocked from teacher routes", func(t *testing.T) {
		status, _, _ := a.do(t, http.MethodGet, fmt.Sprintf("/api/t/quizzes/%s", a.bundle.Quiz.QuizID), tok, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestTeacherQuizRoutes(t *testing.T) {
	a := newTestApp(t)
	schoolID := uuid.New()
	teacher := teacherToken(t, schoolID)

	body := map[string]any{
		"school_id":    schoolID,
		"title":        "  Quiz Baru ",
		"is_published": true,
		"duration_sec": 300,
		"start_at":     t0.Add(-time.Hour),
		"end_at":       t0.Add(time.Hour),
		"questions": []map[string]any{
			{"type": "true_false", "text": "Go punya generics?", "options": []string{"true", "false"}, "correct_answer": "true", "points": 5},
		},
	}

	status, env, raw := a.do(t, http.MethodPost, "/api/t/quizzes", teacher, body)
	require.Equal(t, http.StatusCreated, status, raw)

	var created struct {
		QuizID     uuid.UUID `json:"quiz_id"`
		Title      string    `json:"title"`
		TotalMarks int       `json:"total_marks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Quiz Baru", created.Title)
	assert.Equal(t, 5, created.TotalMarks)

	status, _, _ = a.do(t, http.MethodGet, fmt.Sprintf("/api/t/quizzes/%s", created.QuizID), teacher, nil)
	assert.Equal(t, http.StatusOK, status)

	// teacher school lain
	status, env, _ = a.do(t, http.MethodGet, fmt.Sprintf("/api/t/quizzes/%s", a.bundle.Quiz.QuizID), teacher, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "UNAUTHORIZED", env.ErrorCode)

	body["end_at"] = t0.Add(-2 * time.Hour)
	status, env, _ = a.do(t, http.MethodPost, "/api/t/quizzes", teacher, body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", env.ErrorCode)
}

func TestInstructorViewPagination(t *testing.T) {
	a := newTestApp(t)
	quizID := a.bundle.Quiz.QuizID

	for i := 0; i < 3; i++ {
		status, _, raw := a.do(t, http.MethodPost, fmt.Sprintf("/api/u/quizzes/%s/start", quizID), studentToken(t, uuid.New()), nil)
		require.Equal(t, http.StatusCreated, status, raw)
	}

	teacher := teacherToken(t, a.bundle.Quiz.QuizSchoolID)
	status, env, raw := a.do(t, http.MethodGet, fmt.Sprintf("/api/t/quizzes/%s/attempts?page=1&per_page=2", quizID), teacher, nil)
	require.Equal(t, http.StatusOK, status, raw)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(3), env.Pagination.Total)
	assert.Equal(t, 2, env.Pagination.Count)
	assert.True(t, env.Pagination.HasNext)

	var view struct {
		Quiz struct {
			QuizID uuid.UUID `json:"quiz_id"`
		} `json:"quiz"`
		Attempts []struct {
			Status string `json:"status"`
			Score  *int   `json:"score"`
		} `json:"attempts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, quizID, view.Quiz.QuizID)
	require.Len(t, view.Attempts, 2)
	assert.Equal(t, "in_progress", view.Attempts[0].Status)
	assert.Nil(t, view.Attempts[0].Score)
}

func TestInstructorViewHugePageIsEmpty(t *testing.T) {
	a := newTestApp(t)
	quizID := a.bundle.Quiz.QuizID

	status, _, raw := a.do(t, http.MethodPost, fmt.Sprintf("/api/u/quizzes/%s/start", quizID), studentToken(t, uuid.New()), nil)
	require.Equal(t, http.StatusCreated, status, raw)

	teacher := teacherToken(t, a.bundle.Quiz.QuizSchoolID)
	for _, q := range []string{
		"page=100000000000000000&per_page=100",
		"page=9223372036854775807&per_page=1",
		"page=-5&per_page=-1",
	} {
		status, env, raw := a.do(t, http.MethodGet, fmt.Sprintf("/api/t/quizzes/%s/attempts?%s", quizID, q), teacher, nil)
		require.Equal(t, http.StatusOK, status, raw)
		require.NotNil(t, env.Pagination, q)
		assert.Equal(t, int64(1), env.Pagination.Total, q)

		var view struct {
			Attempts []json.RawMessage `json:"attempts"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &view))
		if q == "page=-5&per_page=-1" {
			assert.Len(t, view.Attempts, 1, q)
			continue
		}
		assert.Empty(t, view.Attempts, q)
		assert.Zero(t, env.Pagination.Count, q)
	}
}
