package service

import "github.com/google/uuid"

// Requester: identitas pemanggil yang sudah di-resolve dari token.
type Requester struct {
	// id yang dicocokkan dengan quiz_attempt_student_id
	StudentID uuid.UUID
	// owner / superadmin global
	IsOwner bool
	// school tempat requester menjadi teacher/admin/dkm
	StaffSchoolIDs []uuid.UUID
}

func (r Requester) IsStaffOf(schoolID uuid.UUID) bool {
	if r.IsOwner {
		return true
	}
	for _, id := range r.StaffSchoolIDs {
		if id == schoolID {
			return true
		}
	}
	return false
}
