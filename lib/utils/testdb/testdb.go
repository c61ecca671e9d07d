// Package testdb PostgreSQL в контейнере для интеграционных тестов хранилищ
package testdb

import (
	"context"
	"testing"
	"time"

	"approval-routing-backend/db"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Open поднимает чистую БД с применёнными миграциями. Тест пропускается в режиме -short
// и при недоступном docker
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("интеграционный тест пропущен в режиме -short")
	}
	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("approval-routing"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Skipf("docker недоступен: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("ошибка остановки контейнера: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	tx, err := db.Open(connStr, false)
	if err != nil {
		t.Fatal(err)
	}
	if err = db.AutoMigrateDB(tx); err != nil {
		t.Fatal(err)
	}
	return tx
}
