// Package authors implements the author reference entity.
package authors

import "time"

// Author is a uniqueness-checked reference entity; name is globally unique.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
