package books

import (
	"github.com/nikolaslacerda/book-store-manager/internal/authors"
	"github.com/nikolaslacerda/book-store-manager/internal/publishers"
)

// BookRequest is the payload for book creation and update.
type BookRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	ISBN        string `json:"isbn" validate:"required,isbn"`
	Pages       int    `json:"pages" validate:"required,gt=0,lte=3000"`
	Chapters    int    `json:"chapters" validate:"required,gt=0,lte=100"`
	AuthorID    int64  `json:"authorId" validate:"required,gt=0"`
	PublisherID int64  `json:"publisherId" validate:"required,gt=0"`
}

// BookResponse embeds the resolved author and publisher records.
type BookResponse struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	ISBN      string               `json:"isbn"`
	Pages     int                  `json:"pages"`
	Chapters  int                  `json:"chapters"`
	Author    authors.Author       `json:"author"`
	Publisher publishers.Publisher `json:"publisher"`
}
