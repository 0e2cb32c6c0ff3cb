package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pendidikanku_backend/internals/features/school/quizzes/dto"
	"pendidikanku_backend/internals/features/school/quizzes/service"
	helper "pendidikanku_backend/internals/helpers"
	helperAuth "pendidikanku_backend/internals/helpers/auth"
)

type QuizAttemptController struct {
	Attempts *service.QuizAttemptService
	// jam server; diganti di test
	Now func() time.Time
}

func NewQuizAttemptController(attempts *service.QuizAttemptService) *QuizAttemptController {
	return &QuizAttemptController{Attempts: attempts, Now: time.Now}
}

func parseUUIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, label+" tidak valid")
	}
	return id, nil
}

func requesterFrom(c *fiber.Ctx) (service.Requester, error) {
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return service.Requester{}, err
	}
	return service.Requester{
		StudentID:      studentID,
		IsOwner:        helperAuth.IsOwnerGlobal(c),
		StaffSchoolIDs: helperAuth.StaffSchoolIDs(c),
	}, nil
}

// POST /api/u/quizzes/:id/start
func (h *QuizAttemptController) StartAttempt(c *fiber.Ctx) error {
	quizID, err := parseUUIDParam(c, "id", "quiz_id")
	if err != nil {
		return respondError(c, err)
	}
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	d, err := h.Attempts.StartAttempt(c.UserContext(), quizID, studentID, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonCreated(c, "Attempt dimulai", dto.ToAttemptSheetResponse(d))
}

// POST /api/u/quizzes/submit
func (h *QuizAttemptController) SubmitAttempt(c *fiber.Ctx) error {
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if fields, err := helper.ValidateStruct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	} else if fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	d, err := h.Attempts.SubmitAttempt(c.UserContext(), req.AttemptID, studentID, req.ToInputs(), h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonOK(c, "Attempt berhasil disubmit", dto.ToAttemptResultResponse(d))
}

// GET /api/u/quizzes/attempts/:id
// GET /api/t/quizzes/attempts/:id
func (h *QuizAttemptController) GetResult(c *fiber.Ctx) error {
	attemptID, err := parseUUIDParam(c, "id", "attempt_id")
	if err != nil {
		return respondError(c, err)
	}
	req, err := requesterFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	d, err := h.Attempts.GetResult(c.UserContext(), attemptID, req, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToAttemptResultResponse(d))
}

// GET /api/u/quizzes/attempts/:id/questions
func (h *QuizAttemptController) ResumeAttempt(c *fiber.Ctx) error {
	attemptID, err := parseUUIDParam(c, "id", "attempt_id")
	if err != nil {
		return respondError(c, err)
	}
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	d, err := h.Attempts.ResumeAttempt(c.UserContext(), attemptID, studentID, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToAttemptSheetResponse(d))
}

// GET /api/u/quizzes/:id/attempts
func (h *QuizAttemptController) ListMyAttempts(c *fiber.Ctx) error {
	quizID, err := parseUUIDParam(c, "id", "quiz_id")
	if err != nil {
		return respondError(c, err)
	}
	studentID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return respondError(c, err)
	}

	list, err := h.Attempts.ListMyAttempts(c.UserContext(), quizID, studentID)
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToAttemptSummaryResponses(list))
}

// GET /api/t/quizzes/:id/attempts?page=&per_page=
func (h *QuizAttemptController) GetInstructorView(c *fiber.Ctx) error {
	quizID, err := parseUUIDParam(c, "id", "quiz_id")
	if err != nil {
		return respondError(c, err)
	}
	req, err := requesterFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	view, err := h.Attempts.GetInstructorView(c.UserContext(), quizID, req, h.Now(),
		service.PageWindow{Offset: paging.Offset, Limit: paging.PerPage})
	if err != nil {
		return respondError(c, err)
	}

	pg := helper.BuildPaginationFromPage(int64(view.Total), paging.Page, paging.PerPage)
	pg.Count = len(view.Attempts)

	return helper.JsonList(c, "ok", dto.ToInstructorViewResponse(view), &pg)
}
