package users

import "github.com/nikolaslacerda/book-store-manager/internal/shared"

// UserRequest is the payload for both signup and update. The password is
// always plaintext on the wire and re-hashed before persistence.
type UserRequest struct {
	Name      string      `json:"name" validate:"required,max=255"`
	Age       int         `json:"age" validate:"required,gt=0,lte=120"`
	Gender    string      `json:"gender" validate:"required,oneof=MALE FEMALE"`
	Email     string      `json:"email" validate:"required,email,max=100"`
	Username  string      `json:"username" validate:"required,max=100"`
	Password  string      `json:"password" validate:"required,min=6"`
	BirthDate shared.Date `json:"birthDate" validate:"required"`
	Role      string      `json:"role" validate:"required,oneof=ADMIN USER"`
}

// MessageResponse carries the human readable outcome of a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}
