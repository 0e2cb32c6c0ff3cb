package middleware

import (
	"github.com/gofiber/fiber/v2"

	"pendidikanku_backend/internals/constants"
	helper "pendidikanku_backend/internals/helpers"
	helperAuth "pendidikanku_backend/internals/helpers/auth"
)

// IsSchoolStaff: lolos kalau owner global atau punya role staff di minimal satu school.
// Cek per-school (school milik quiz) tetap dilakukan di service.
func IsSchoolStaff(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.IsOwnerGlobal(c) || len(helperAuth.StaffSchoolIDs(c)) > 0 {
			return c.Next()
		}
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorTeacher(feature))
	}
}
