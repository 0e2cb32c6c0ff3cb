package controller

import (
	"github.com/gofiber/fiber/v2"

	"pendidikanku_backend/internals/features/school/quizzes/dto"
	"pendidikanku_backend/internals/features/school/quizzes/service"
	helper "pendidikanku_backend/internals/helpers"
)

type QuizController struct {
	Quizzes *service.QuizService
}

func NewQuizController(quizzes *service.QuizService) *QuizController {
	return &QuizController{Quizzes: quizzes}
}

// POST /api/t/quizzes
func (h *QuizController) CreateQuiz(c *fiber.Ctx) error {
	req, err := requesterFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	var body dto.CreateQuizRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	body.Normalize()
	if fields, err := helper.ValidateStruct(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	} else if fields != nil {
		return helper.JsonValidationError(c, fields)
	}

	bundle := body.ToBundle()
	if err := h.Quizzes.CreateQuiz(c.UserContext(), bundle, req); err != nil {
		return respondError(c, err)
	}
	return helper.JsonCreated(c, "Quiz berhasil dibuat", dto.ToQuizResponse(&bundle.Quiz, bundle.Questions))
}

// GET /api/t/quizzes/:id
func (h *QuizController) GetQuiz(c *fiber.Ctx) error {
	quizID, err := parseUUIDParam(c, "id", "quiz_id")
	if err != nil {
		return respondError(c, err)
	}
	req, err := requesterFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	b, err := h.Quizzes.GetQuiz(c.UserContext(), quizID, req)
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToQuizResponse(&b.Quiz, b.Questions))
}
