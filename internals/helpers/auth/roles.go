package helper

import (
	"slices"
	"strings"

	"pendidikanku_backend/internals/constants"
)

func IsStaffRole(role string) bool {
	return slices.Contains(constants.StaffRoles, strings.ToLower(strings.TrimSpace(role)))
}
