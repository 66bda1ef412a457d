package app_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolaslacerda/book-store-manager/internal/app"
	"github.com/nikolaslacerda/book-store-manager/internal/auth"
	"github.com/nikolaslacerda/book-store-manager/internal/books"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouter_Healthz(t *testing.T) {
	router := app.NewRouter(app.RouterParams{Logger: discardLogger()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestRouter_BooksRequireToken(t *testing.T) {
	logger := discardLogger()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := auth.NewService(logger, nil, tokens, nil)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		AuthService:  authService,
		BooksHandler: books.NewHandler(logger, nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := app.NewRouter(app.RouterParams{Logger: discardLogger()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNotFound, res.Code)
}
