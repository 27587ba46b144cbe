package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-admin/internal/core/database"
	"user-admin/internal/repo"
	"user-admin/internal/service"
	"user-admin/internal/transport/http/handler"
	"user-admin/internal/transport/http/router"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	users, roles := repo.NewUserRepo(db), repo.NewRoleRepo(db)
	_, err = service.NewSeeder(users, roles, "", nil).Seed(context.Background())
	require.NoError(t, err)

	svc := service.NewUserService(users, roles, service.Options{PerPage: 2})
	srv := httptest.NewServer(router.NewAPIEngine(router.Options{}, router.NewRegistry(handler.NewUserHandler(svc, nil))))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_List(t *testing.T) {
	srv := newServer(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"list", "--base-url", srv.URL, "--page", "2"}, &out))

	assert.Contains(t, out.String(), "regular2@example.com")
	assert.NotContains(t, out.String(), "admin@example.com")
	assert.Contains(t, out.String(), "(page 2 of 2, 3 total)")
}

func TestRun_Create(t *testing.T) {
	srv := newServer(t)
	var out bytes.Buffer

	err := run(context.Background(), []string{"create", "--base-url", srv.URL,
		"--name", "Jane", "--email", "jane@example.com",
		"--password", "secret", "--password-confirmation", "secret"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created user #4 Jane <jane@example.com>")
	assert.Contains(t, out.String(), "[1] 2")

	out.Reset()
	err = run(context.Background(), []string{"create", "--base-url", srv.URL,
		"--name", "Jane", "--email", "jane@example.com",
		"--password", "secret", "--password-confirmation", "secret"}, &out)
	assert.EqualError(t, err, "The email has already been taken.")

	err = run(context.Background(), []string{"create", "--base-url", srv.URL,
		"--name", "X", "--email", "x@example.com",
		"--password", "a", "--password-confirmation", "b"}, &out)
	assert.EqualError(t, err, "Passwords do not match")
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "usage:")
	assert.Error(t, run(context.Background(), []string{"delete"}, &out))
	assert.NoError(t, run(context.Background(), []string{"help"}, &out))
}

func TestRun_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"create", "--base-url", url,
		"--name", "X", "--email", "x@example.com",
		"--password", "a", "--password-confirmation", "a"}, &out)
	assert.EqualError(t, err, "An error occurred while adding the user")
}
