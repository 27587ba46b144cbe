package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"user-admin/internal/core/database"
	"user-admin/internal/domain"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	// one connection so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "failed to migrate tables")
	return db
}

func mustRole(t *testing.T, db *gorm.DB, name string) *domain.Role {
	t.Helper()
	r, _, err := NewRoleRepo(db).FirstOrCreate(context.Background(), name)
	require.NoError(t, err)
	return r
}

func TestUserRepo_CreateWithRole(t *testing.T) {
	t.Run("creates user and role link", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepo(db)
		role := mustRole(t, db, domain.RoleAdmin)

		u := &domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}
		err := repo.CreateWithRole(context.Background(), u, role)

		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, []string{domain.RoleAdmin}, u.RoleNames())

		found, err := repo.FindByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{domain.RoleAdmin}, found.RoleNames())
	})

	t.Run("duplicate email maps to ErrEmailTaken and leaves no partial rows", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepo(db)
		role := mustRole(t, db, domain.RoleRegular)

		require.NoError(t, repo.CreateWithRole(context.Background(),
			&domain.User{Name: "A", Email: "dup@example.com", PasswordHash: "h"}, role))

		u := &domain.User{Name: "B", Email: "dup@example.com", PasswordHash: "h"}
		err := repo.CreateWithRole(context.Background(), u, role)

		assert.ErrorIs(t, err, domain.ErrEmailTaken)
		assert.Zero(t, u.ID)

		total, err := repo.Count(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)

		var links int64
		require.NoError(t, db.Table("user_roles").Count(&links).Error)
		assert.EqualValues(t, 1, links)
	})

	t.Run("nil arguments", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepo(db)

		assert.Error(t, repo.CreateWithRole(context.Background(), nil, nil))
	})
}

func TestUserRepo_FindByEmail_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)

	found, err := repo.FindByEmail(context.Background(), "missing@example.com")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Nil(t, found)
}

func TestUserRepo_Page(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	role := mustRole(t, db, domain.RoleRegular)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		u := &domain.User{Name: fmt.Sprintf("User %d", i), Email: fmt.Sprintf("u%d@example.com", i), PasswordHash: "h"}
		require.NoError(t, repo.CreateWithRole(ctx, u, role))
	}

	t.Run("first page in creation order", func(t *testing.T) {
		users, total, err := repo.Page(ctx, 0, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, users, 2)
		assert.Equal(t, "u1@example.com", users[0].Email)
		assert.Equal(t, "u2@example.com", users[1].Email)
		assert.Equal(t, []string{domain.RoleRegular}, users[0].RoleNames())
	})

	t.Run("last partial page", func(t *testing.T) {
		users, _, err := repo.Page(ctx, 4, 2)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u5@example.com", users[0].Email)
	})

	t.Run("offset past the end", func(t *testing.T) {
		users, total, err := repo.Page(ctx, 10, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}

func TestUserRepo_AttachRole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	regular := mustRole(t, db, domain.RoleRegular)
	admin := mustRole(t, db, domain.RoleAdmin)

	u := &domain.User{Name: "A", Email: "a@example.com", PasswordHash: "h"}
	require.NoError(t, repo.CreateWithRole(ctx, u, regular))

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.AttachRole(ctx, found, regular), "attaching an existing role is a no-op")
	require.NoError(t, repo.AttachRole(ctx, found, admin))

	found, err = repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{domain.RoleRegular, domain.RoleAdmin}, found.RoleNames())
}

func TestRoleRepo_FirstOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoleRepo(db)
	ctx := context.Background()

	first, created, err := repo.FirstOrCreate(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.FirstOrCreate(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	var n int64
	require.NoError(t, db.Model(&domain.Role{}).Where("name = ?", domain.RoleAdmin).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err = repo.FindByName(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}
