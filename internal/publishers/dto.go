package publishers

import "github.com/nikolaslacerda/book-store-manager/internal/shared"

// PublisherRequest is the payload for publisher creation.
type PublisherRequest struct {
	Name           string      `json:"name" validate:"required,max=255"`
	Code           string      `json:"code" validate:"required,max=100"`
	FoundationDate shared.Date `json:"foundationDate" validate:"required"`
}
