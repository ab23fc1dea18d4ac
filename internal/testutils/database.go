package testutils

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	dbPkg "terminal-terrace/atlas-forum/packages/database"

	"terminal-terrace/atlas-forum/internal/model"
)

// SetupTestDB creates an in-memory SQLite database with all tables migrated.
// The connection is closed on test cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dbPkg.InitSQLite(&dbPkg.SQLiteConfig{
		ServiceName: "atlas-forum-test",
		Path:        ":memory:",
		LogLevel:    "silent", // Suppress logs in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

// SetupTestRedis starts an in-process miniredis server and returns a client
// connected to it. Both are shut down on test cleanup.
func SetupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	return client, server
}
