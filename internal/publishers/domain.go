// Package publishers implements the publisher reference entity.
package publishers

import (
	"time"

	"github.com/nikolaslacerda/book-store-manager/internal/shared"
)

// Publisher is a uniqueness-checked reference entity; name and code are
// each globally unique.
type Publisher struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Code           string      `json:"code"`
	FoundationDate shared.Date `json:"foundationDate"`
	CreatedAt      time.Time   `json:"-"`
	UpdatedAt      time.Time   `json:"-"`
}
