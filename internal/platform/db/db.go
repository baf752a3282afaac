package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // mysql | sqlite | postgres
	DSN      string `yaml:"dsn"`    // 指定があれば host 等より優先
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Path     string `yaml:"path"` // sqlite のみ
}

// DB is the store handle injected into every feature package.
type DB struct {
	*sql.DB
	Dialect Dialect
}

func (c DatabaseConfig) dsn() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch Dialect(c.Driver) {
	case MySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
			c.Username, c.Password, c.Host, c.Port, c.DBName), nil
	case Postgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.Username, c.Password, c.Host, c.Port, c.DBName), nil
	case SQLite:
		path := c.Path
		if path == "" {
			path = "./data/attendance.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("mkdir db dir: %w", err)
		}
		return sqliteDSN(path), nil
	}
	return "", fmt.Errorf("unsupported driver %q", c.Driver)
}

func sqliteDSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)
}

// Open connects, pings and returns the handle. Migrations are applied separately.
func Open(ctx context.Context, c DatabaseConfig) (*DB, error) {
	d := Dialect(c.Driver)
	if !d.Valid() {
		return nil, fmt.Errorf("unsupported driver %q", c.Driver)
	}
	dsn, err := c.dsn()
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("接続準備に失敗: %w", err)
	}

	if d == SQLite {
		// SQLite は単一コネクションで直列化する
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	} else {
		conn.SetMaxOpenConns(80)
		conn.SetMaxIdleConns(20)
		conn.SetConnMaxLifetime(30 * time.Minute)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("DB接続に失敗: %w", err)
	}

	return &DB{DB: conn, Dialect: d}, nil
}
