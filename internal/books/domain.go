// Package books implements the ownership-scoped book resource. Every
// query and mutation is filtered by the owning user; a book that belongs
// to someone else is indistinguishable from one that does not exist.
package books

import "time"

// Book is an owned resource referencing exactly one user, author and
// publisher. The (name, isbn) pair is unique within one owner's books,
// not globally.
type Book struct {
	ID          int64
	Name        string
	ISBN        string
	Pages       int
	Chapters    int
	UserID      int64
	AuthorID    int64
	PublisherID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
