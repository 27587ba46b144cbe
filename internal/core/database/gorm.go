package database

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"user-admin/internal/domain"
)

var ErrUnsupportedDriver = errors.New("unsupported db driver")

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	// LogWriter gorm 日志输出；为空时写 stdout
	LogWriter io.Writer
}

func NewGorm(o Opts) (*gorm.DB, error) {
	dial, err := dialector(o)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: newGormLogger(o.LogWriter, o.LogLevel),
		// 驱动错误翻译成 gorm.ErrDuplicatedKey 等哨兵
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}
	db = db.
		Session(&gorm.Session{
			PrepareStmt:            o.Driver != "sqlite", // 预编译缓存，提高 QPS
			CreateBatchSize:        200,
			SkipDefaultTransaction: true, // 只在需要时手动开 Tx
		})
	return db, nil
}

// Migrate 建表：roles / users / user_roles
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Role{}, &domain.User{})
}

func dialector(o Opts) (gorm.Dialector, error) {
	switch o.Driver {
	case "postgres":
		return postgres.Open(o.DSN), nil
	case "mysql":
		dsn := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		return mysql.Open(dsn), nil
	case "sqlite":
		dsn := o.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}
}

func newGormLogger(w io.Writer, level string) logger.Interface {
	lvl := logger.Warn
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	if w == nil {
		return logger.Default.LogMode(lvl)
	}
	return logger.New(log.New(w, "", 0), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

// MaskDSN 打日志前隐藏密码
func MaskDSN(dsn string) string {
	if at := strings.Index(dsn, "@"); at > 0 {
		head := dsn[:at]
		if i := strings.LastIndex(head, ":"); i > 0 && !strings.HasPrefix(head[i:], "://") {
			return head[:i+1] + "****" + dsn[at:]
		}
	}
	return dsn
}

// jdbcRenames JDBC 参数名 → go-sql-driver 参数名
var jdbcRenames = map[string]string{
	"characterEncoding": "charset",
	"serverTimezone":    "loc",
}

var jdbcIgnored = []string{"useUnicode", "zeroDateTimeBehavior"}

// normalizeMySQLDSN 把 mysql:// 与 jdbc:mysql:// 形式转成 go-sql-driver DSN；原生 DSN 原样返回
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimPrefix(strings.TrimSpace(input), "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}
	u, err := url.Parse(in)
	if err != nil {
		return in
	}

	q := u.Query()
	user, pass := credentials(u, q)
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	for from, to := range jdbcRenames {
		if v := q.Get(from); v != "" && q.Get(to) == "" {
			q.Set(to, v)
		}
		q.Del(from)
	}
	for _, k := range jdbcIgnored {
		q.Del(k)
	}
	if ssl := q.Get("useSSL"); ssl != "" {
		q.Set("tls", tlsMode(ssl))
		q.Del("useSSL")
	}
	setDefault(q, "parseTime", "true")
	setDefault(q, "charset", "utf8mb4")

	var b strings.Builder
	if user != "" || pass != "" {
		b.WriteString(user)
		if pass != "" {
			b.WriteString(":" + pass)
		}
		b.WriteString("@")
	}
	fmt.Fprintf(&b, "tcp(%s)/%s?%s", u.Host, strings.TrimPrefix(u.Path, "/"), q.Encode())
	return b.String()
}

// credentials URL userinfo 优先，query 里的 user/password 覆盖
func credentials(u *url.URL, q url.Values) (user, pass string) {
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	if v := q.Get("user"); v != "" {
		user = v
	}
	if v := q.Get("password"); v != "" {
		pass = v
	}
	q.Del("user")
	q.Del("password")
	return user, pass
}

func tlsMode(useSSL string) string {
	switch v := strings.ToLower(useSSL); v {
	case "true", "1":
		return "true"
	case "skip-verify", "preferred":
		return v
	default:
		return "false"
	}
}

func setDefault(q url.Values, k, v string) {
	if q.Get(k) == "" {
		q.Set(k, v)
	}
}
