package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSetupDatabase_SQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := &DatabaseConfig{
		Driver: "sqlite",
		SQLite: SQLiteConfig{Path: dbPath},
		Pool: PoolConfig{
			MaxIdleConns:    5,
			MaxOpenConns:    50,
			ConnMaxLifetime: "30m",
		},
	}

	db, err := SetupDatabase(cfg, logger)
	if err != nil {
		t.Fatalf("SetupDatabase() error = %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	stats := sqlDB.Stats()
	if stats.MaxOpenConnections != 50 {
		t.Errorf("MaxOpenConnections = %d; want 50", stats.MaxOpenConnections)
	}
}

func TestSetupDatabase_PoolDefaults(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := &DatabaseConfig{
		Driver: "sqlite",
		SQLite: SQLiteConfig{Path: dbPath},
		Pool:   PoolConfig{}, // all zeros → defaults
	}

	db, err := SetupDatabase(cfg, logger)
	if err != nil {
		t.Fatalf("SetupDatabase() error = %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	stats := sqlDB.Stats()
	if stats.MaxOpenConnections != 100 {
		t.Errorf("MaxOpenConnections = %d; want 100 (default)", stats.MaxOpenConnections)
	}
}

func TestSetupDatabase_UnsupportedDriver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := &DatabaseConfig{Driver: "mysql"}

	_, err := SetupDatabase(cfg, logger)
	if err == nil {
		t.Fatal("SetupDatabase() expected error for unsupported driver, got nil")
	}

	want := `unsupported database driver: mysql`
	if err.Error() != want {
		t.Errorf("error = %q; want %q", err.Error(), want)
	}
}

func TestSetupDatabase_RejectsBadConnMaxLifetime(t *testing.T) {
	for _, lifetime := range []string{"not-a-duration", "-1s", "0s"} {
		t.Run(lifetime, func(t *testing.T) {
			cfg := &DatabaseConfig{
				Driver: "sqlite",
				SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
				Pool:   PoolConfig{ConnMaxLifetime: lifetime},
			}
			_, err := SetupDatabase(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
			if err == nil || !strings.Contains(err.Error(), "pool.conn_max_lifetime") {
				t.Fatalf("SetupDatabase() error = %v, want pool.conn_max_lifetime error", err)
			}
		})
	}
}

func TestSetupDatabase_StatementsLoggedThroughSlog(t *testing.T) {
	tests := []struct {
		name    string
		level   slog.Level
		wantSQL bool
	}{
		{"debug logs every statement", slog.LevelDebug, true},
		{"info logs only slow statements", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.level}))
			cfg := &DatabaseConfig{
				Driver:    "sqlite",
				SQLite:    SQLiteConfig{Path: filepath.Join(t.TempDir(), "log.db")},
				SlowQuery: "1m",
			}
			db, err := SetupDatabase(cfg, logger)
			if err != nil {
				t.Fatalf("SetupDatabase() error = %v", err)
			}
			sqlDB, _ := db.DB()
			t.Cleanup(func() { sqlDB.Close() })

			if err := db.Exec("SELECT 42").Error; err != nil {
				t.Fatalf("Exec() error = %v", err)
			}
			out := buf.String()
			if got := strings.Contains(out, "SELECT 42"); got != tt.wantSQL {
				t.Errorf("statement logged = %v; want %v\n%s", got, tt.wantSQL, out)
			}
			if tt.wantSQL && !strings.Contains(out, "component=gorm") {
				t.Errorf("gorm lines missing component attribute:\n%s", out)
			}
			if !strings.Contains(out, "slow_query=1m0s") {
				t.Errorf("connect log missing slow_query:\n%s", out)
			}
		})
	}
}

func TestSetupDatabase_SQLiteForeignKeys(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &DatabaseConfig{
		Driver: "sqlite",
		SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "fk.db")},
	}

	db, err := SetupDatabase(cfg, logger)
	if err != nil {
		t.Fatalf("SetupDatabase() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("PRAGMA foreign_keys error = %v", err)
	}
	if enabled != 1 {
		t.Errorf("foreign_keys = %d; want 1", enabled)
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/app.db", "data/app.db?_pragma=foreign_keys(1)"},
		{":memory:", ":memory:"},
		{"file.db?_pragma=busy_timeout(5000)", "file.db?_pragma=busy_timeout(5000)"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.path); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q; want %q", tt.path, got, tt.want)
		}
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	got := buildPostgresDSN(&PostgresConfig{
		Host: "db", Port: 5432, User: "quiz", Password: "p@ss", DBName: "quizhub", SSLMode: "require",
	})
	want := "postgres://quiz:p%40ss@db:5432/quizhub?sslmode=require"
	if got != want {
		t.Errorf("buildPostgresDSN() = %q; want %q", got, want)
	}
	if buildPostgresDSN(nil) != "" {
		t.Error("buildPostgresDSN(nil) should be empty")
	}
}

func TestEffectiveDefaults(t *testing.T) {
	if got := effectiveMaxIdleConns(0); got != 10 {
		t.Errorf("effectiveMaxIdleConns(0) = %d; want 10", got)
	}
	if got := effectiveMaxIdleConns(5); got != 5 {
		t.Errorf("effectiveMaxIdleConns(5) = %d; want 5", got)
	}
	if got := effectiveMaxOpenConns(0); got != 100 {
		t.Errorf("effectiveMaxOpenConns(0) = %d; want 100", got)
	}
	if got := effectiveMaxOpenConns(50); got != 50 {
		t.Errorf("effectiveMaxOpenConns(50) = %d; want 50", got)
	}
	if got := effectiveConnMaxLifetime(""); got != "1h" {
		t.Errorf("effectiveConnMaxLifetime(\"\") = %q; want \"1h\"", got)
	}
	if got := effectiveConnMaxLifetime("   "); got != "1h" {
		t.Errorf("effectiveConnMaxLifetime(\"   \") = %q; want \"1h\"", got)
	}
	if got := effectiveConnMaxLifetime("30m"); got != "30m" {
		t.Errorf("effectiveConnMaxLifetime(\"30m\") = %q; want \"30m\"", got)
	}
	for in, want := range map[string]time.Duration{"": 200 * time.Millisecond, "bogus": 200 * time.Millisecond, "-5ms": 200 * time.Millisecond, "1s": time.Second} {
		if got := effectiveSlowQuery(in); got != want {
			t.Errorf("effectiveSlowQuery(%q) = %v; want %v", in, got, want)
		}
	}
}
