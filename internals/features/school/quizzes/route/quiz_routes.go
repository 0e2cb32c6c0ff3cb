package route

import (
	"github.com/gofiber/fiber/v2"

	"pendidikanku_backend/internals/features/school/quizzes/controller"
)

// QuizUserRoutes: /api/u (student)
// limiter dipasang di start & submit saja.
func QuizUserRoutes(r fiber.Router, attempts *controller.QuizAttemptController, limiter fiber.Handler) {
	g := r.Group("/quizzes")

	g.Post("/submit", limiter, attempts.SubmitAttempt)
	g.Get("/attempts/:id/questions", attempts.ResumeAttempt)
	g.Get("/attempts/:id", attempts.GetResult)
	g.Post("/:id/start", limiter, attempts.StartAttempt)
	g.Get("/:id/attempts", attempts.ListMyAttempts)
}

// QuizTeacherRoutes: /api/t (teacher / admin / dkm)
func QuizTeacherRoutes(r fiber.Router, quizzes *controller.QuizController, attempts *controller.QuizAttemptController) {
	g := r.Group("/quizzes")

	g.Post("/", quizzes.CreateQuiz)
	g.Get("/attempts/:id", attempts.GetResult)
	g.Get("/:id/attempts", attempts.GetInstructorView)
	g.Get("/:id", quizzes.GetQuiz)
}
