package details

import (
	"github.com/gofiber/fiber/v2"

	quizController "pendidikanku_backend/internals/features/school/quizzes/controller"
	quizRoute "pendidikanku_backend/internals/features/school/quizzes/route"
	"pendidikanku_backend/internals/features/school/quizzes/service"
	middlewares "pendidikanku_backend/internals/middlewares"
)

// QuizUserRoutes: /api/u/quizzes/...
func QuizUserRoutes(r fiber.Router, attempts *service.QuizAttemptService) {
	ctrl := quizController.NewQuizAttemptController(attempts)

	// start & submit dibatasi per user
	quizRoute.QuizUserRoutes(r, ctrl, middlewares.AttemptRateLimiter())
}

// QuizTeacherRoutes: /api/t/quizzes/...
func QuizTeacherRoutes(r fiber.Router, quizzes *service.QuizService, attempts *service.QuizAttemptService) {
	quizRoute.QuizTeacherRoutes(r,
		quizController.NewQuizController(quizzes),
		quizController.NewQuizAttemptController(attempts),
	)
}
