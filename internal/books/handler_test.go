package books_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolaslacerda/book-store-manager/internal/auth"
	"github.com/nikolaslacerda/book-store-manager/internal/books"
)

// newBookServer wires the books handler behind the real auth middleware,
// exactly as the router mounts it.
func newBookServer(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()
	f := newFixture()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := auth.NewService(logger, f.users, tokens, nil)

	r := chi.NewRouter()
	r.Route("/api/v1/books", func(r chi.Router) {
		r.Use(authService.RequireAuth)
		books.NewHandler(logger, f.service).MountRoutes(r)
	})
	return r, tokens
}

const bookBody = `{
	"name": "Dom Casmurro",
	"isbn": "978-3-16-148410-0",
	"pages": 256,
	"chapters": 48,
	"authorId": 10,
	"publisherId": 20
}`

func bearer(t *testing.T, tokens *auth.TokenManager, username string) string {
	t.Helper()
	token, err := tokens.Issue(&auth.Principal{Username: username})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestBooksAPI_RequiresBearerToken(t *testing.T) {
	server, _ := newBookServer(t)

	res := httptest.NewRecorder()
	server.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestBooksAPI_CreateAndList(t *testing.T) {
	server, tokens := newBookServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(bookBody))
	req.Header.Set("Authorization", bearer(t, tokens, "nikolas"))
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created books.BookResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	assert.Equal(t, "978-3-16-148410-0", created.ISBN)
	assert.Equal(t, "Machado de Assis", created.Author.Name)
	assert.Equal(t, "Companhia das Letras", created.Publisher.Name)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	req.Header.Set("Authorization", bearer(t, tokens, "nikolas"))
	res = httptest.NewRecorder()
	server.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var mine []books.BookResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	// Another user's list stays empty.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	req.Header.Set("Authorization", bearer(t, tokens, "amanda"))
	res = httptest.NewRecorder()
	server.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var theirs []books.BookResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &theirs))
	assert.Empty(t, theirs)
}

func TestBooksAPI_CrossUserLookupIs404(t *testing.T) {
	server, tokens := newBookServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(bookBody))
	req.Header.Set("Authorization", bearer(t, tokens, "nikolas"))
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)
	require.Equal(t, http.StatusCreated, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/books/1", nil)
	req.Header.Set("Authorization", bearer(t, tokens, "amanda"))
	res = httptest.NewRecorder()
	server.ServeHTTP(res, req)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestBooksAPI_InvalidPayload(t *testing.T) {
	server, tokens := newBookServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(`{"name":""}`))
	req.Header.Set("Authorization", bearer(t, tokens, "nikolas"))
	res := httptest.NewRecorder()
	server.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
