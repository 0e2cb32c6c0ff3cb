package constants

import "fmt"

const (
	RoleOwner   = "owner"
	RoleDKM     = "dkm"
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleUser    = "user"
)

// Template pesan error role
const (
	ErrOnlyTeachersCanAccess = "❌ Hanya teacher, admin, dkm, atau owner yang boleh mengakses fitur %s."
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

// Role per-school yang dianggap staff (boleh lihat kunci jawaban & hasil semua student)
var StaffRoles = []string{
	RoleTeacher,
	RoleAdmin,
	RoleDKM,
}
