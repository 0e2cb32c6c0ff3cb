package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"pendidikanku_backend/internals/features/school/quizzes/service"
	helper "pendidikanku_backend/internals/helpers"
)

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindQuizNotFound, service.KindAttemptNotFound:
		return fiber.StatusNotFound
	case service.KindQuizNotOpen, service.KindResultNotAvailable, service.KindUnauthorized:
		return fiber.StatusForbidden
	case service.KindAttemptLimitExceeded, service.KindAttemptAlreadySubmitted, service.KindRepositoryConflict:
		return fiber.StatusConflict
	case service.KindInvalidQuiz:
		return fiber.StatusUnprocessableEntity
	case service.KindRepositoryUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError: AttemptError → error_code domain, *fiber.Error → status-nya, sisanya 500.
func respondError(c *fiber.Ctx, err error) error {
	var ae *service.AttemptError
	if errors.As(err, &ae) {
		status := statusForKind(ae.Kind)
		if status >= 500 || ae.Kind == service.KindRepositoryUnavailable {
			log.Printf("[QuizController] %s %s: %v", c.Method(), c.Path(), err)
		}
		return helper.JsonErrorCode(c, status, string(ae.Kind), ae.Message)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}

	log.Printf("[QuizController] %s %s unexpected: %v", c.Method(), c.Path(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
}
