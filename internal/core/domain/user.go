package domain

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// ValidRole reports whether role names one of the two classroom roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher
}

// User models an authenticated actor in the classroom. Records are created
// on registration and never mutated or deleted; the username is the key.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}
