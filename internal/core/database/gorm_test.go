package database

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"user-admin/internal/domain"
)

func TestNewGorm_SQLite(t *testing.T) {
	var buf bytes.Buffer
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent", LogWriter: &buf})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.User{}))
	assert.True(t, db.Migrator().HasTable(&domain.Role{}))
	assert.True(t, db.Migrator().HasTable("user_roles"))
}

func TestNewGorm_TranslatesDuplicateKey(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&domain.Role{Name: domain.RoleAdmin}).Error)
	err = db.Create(&domain.Role{Name: domain.RoleAdmin}).Error

	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		user string
		pass string
		want string
	}{
		{
			name: "native dsn untouched",
			in:   "root:pw@tcp(127.0.0.1:3306)/app?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/app?parseTime=true",
		},
		{
			name: "url form with defaults",
			in:   "mysql://root:pw@127.0.0.1:3306/app",
			want: "root:pw@tcp(127.0.0.1:3306)/app?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc form with overrides",
			in:   "jdbc:mysql://127.0.0.1:3306/app?useSSL=false&characterEncoding=utf8",
			user: "admin",
			pass: "secret",
			want: "admin:secret@tcp(127.0.0.1:3306)/app?charset=utf8&parseTime=true&tls=false",
		},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(127.0.0.1:3306)/app", MaskDSN("root:pw@tcp(127.0.0.1:3306)/app"))
	assert.Equal(t, "postgres://u:****@db/app", MaskDSN("postgres://u:p@db/app"))
	assert.Equal(t, "postgres://u@db/app", MaskDSN("postgres://u@db/app"))
	assert.Equal(t, "file:app.db", MaskDSN("file:app.db"))
}
