// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"pendidikanku_backend/internals/configs"
	"pendidikanku_backend/internals/features/school/quizzes/service"
	schoolkuMiddleware "pendidikanku_backend/internals/middlewares/auth_school"
	featuresMiddleware "pendidikanku_backend/internals/middlewares/features"
	routeDetails "pendidikanku_backend/internals/route/details"
)

var startTime time.Time

// Services: semua service yang di-mount ke HTTP (dirakit di main).
type Services struct {
	QuizAttempts *service.QuizAttemptService
	Quizzes      *service.QuizService
}

func SetupRoutes(app *fiber.App, svc Services) {
	startTime = time.Now()

	BaseRoutes(app)

	auth := schoolkuMiddleware.AuthJWT(schoolkuMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER / STUDENT) =====================
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	private := app.Group("/api/u", auth)

	// ===================== TEACHER (staff per school) =====================
	log.Println("[INFO] Setting up TEACHER group (Auth + staff role)...")
	teacher := app.Group("/api/t", auth, featuresMiddleware.IsSchoolStaff("quiz"))

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Quiz routes...")
	routeDetails.QuizUserRoutes(private, svc.QuizAttempts)
	routeDetails.QuizTeacherRoutes(teacher, svc.Quizzes, svc.QuizAttempts)
}
