package users

import "time"

// Gender is the closed set of user genders.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// authorityPrefix is prepended to a role description to build the
// authority label carried by a principal.
const authorityPrefix = "ROLE_"

// Description returns the human readable label for the role. The switch
// must stay exhaustive over the constants above so every role yields a
// labeled authority.
func (r Role) Description() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "User"
	}
	return string(r)
}

// Authority builds the authorization label granted by the role.
func (r Role) Authority() string {
	return authorityPrefix + r.Description()
}

// User represents a registered account. Username and email are each
// globally unique.
type User struct {
	ID        int64
	Name      string
	Age       int
	Gender    Gender
	Email     string
	Username  string
	Password  string // bcrypt digest, never plaintext
	BirthDate time.Time
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
