package authors

// AuthorRequest is the payload for author creation.
type AuthorRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Age  int    `json:"age" validate:"required,gt=0,lte=120"`
}
