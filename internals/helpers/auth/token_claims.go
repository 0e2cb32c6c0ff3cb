package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pendidikanku_backend/internals/constants"
)

// Locals yang diisi middleware AuthJWT
const (
	LocUserID      = "user_id"      // string | uuid
	LocStudentID   = "student_id"   // string | uuid (opsional)
	LocRolesGlobal = "roles_global" // []string
	LocSchoolRoles = "school_roles" // []SchoolRolesEntry
	LocIsOwner     = "is_owner"     // bool
)

type SchoolRolesEntry struct {
	SchoolID uuid.UUID `json:"school_id"`
	Roles    []string  `json:"roles"`
}

func uuidFromLocals(c *fiber.Ctx, key string) (uuid.UUID, bool, error) {
	switch t := c.Locals(key).(type) {
	case nil:
		return uuid.Nil, false, nil
	case uuid.UUID:
		return t, t != uuid.Nil, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, false, nil
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, false, err
		}
		return id, true, nil
	default:
		return uuid.Nil, false, fiber.ErrBadRequest
	}
}

// GetUserIDFromToken: 401 kalau belum login, 400 kalau format tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok, err := uuidFromLocals(c, LocUserID)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}
	return id, nil
}

// GetStudentIDFromToken: pakai claim student_id kalau ada, fallback ke user_id.
func GetStudentIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok, err := uuidFromLocals(c, LocStudentID)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Student ID pada token tidak valid")
	}
	if ok {
		return id, nil
	}
	return GetUserIDFromToken(c)
}

func IsOwnerGlobal(c *fiber.Ctx) bool {
	if v, ok := c.Locals(LocIsOwner).(bool); ok && v {
		return true
	}
	roles, _ := c.Locals(LocRolesGlobal).([]string)
	for _, r := range roles {
		if r == constants.RoleOwner {
			return true
		}
	}
	return false
}

func SchoolRoles(c *fiber.Ctx) []SchoolRolesEntry {
	rs, _ := c.Locals(LocSchoolRoles).([]SchoolRolesEntry)
	return rs
}

// StaffSchoolIDs: school di mana user punya role teacher/admin/dkm.
func StaffSchoolIDs(c *fiber.Ctx) []uuid.UUID {
	out := make([]uuid.UUID, 0)
	for _, e := range SchoolRoles(c) {
		for _, r := range e.Roles {
			if IsStaffRole(r) {
				out = append(out, e.SchoolID)
				break
			}
		}
	}
	return out
}
