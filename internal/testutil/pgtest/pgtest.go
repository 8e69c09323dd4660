// Package pgtest поднимает изолированную схему PostgreSQL для интеграционных тестов репозиториев.
// Тесты запускаются с тегом integration и переменной TEST_DATABASE_DSN, иначе пропускаются.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/pkg/dbmetrics"
)

// DSNEnv переменная окружения с адресом тестовой базы
const DSNEnv = "TEST_DATABASE_DSN"

// Open создает отдельную схему, применяет все up-миграции и возвращает обертку над соединением.
// Схема удаляется по завершении теста.
func Open(t *testing.T) *dbmetrics.DB {
	t.Helper()

	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", DSNEnv)
	}

	admin, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })

	ctx := context.Background()
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	// Расширение общее для базы, типы gist ищутся через public
	_, err = admin.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS btree_gist")
	require.NoError(t, err)
	_, err = admin.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
	})

	db, err := sql.Open("postgres", withSearchPath(t, dsn, schema))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, file := range upMigrations(t) {
		body, err := os.ReadFile(file)
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, string(body))
		require.NoError(t, err, "apply %s", filepath.Base(file))
	}

	return dbmetrics.Wrap(db, nil)
}

func withSearchPath(t *testing.T, dsn, schema string) string {
	t.Helper()

	searchPath := schema + ",public"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		require.NoError(t, err)
		q := u.Query()
		q.Set("search_path", searchPath)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return fmt.Sprintf("%s search_path=%s", dsn, searchPath)
}

func upMigrations(t *testing.T) []string {
	t.Helper()

	_, self, _, ok := runtime.Caller(0)
	require.True(t, ok)
	dir := filepath.Join(filepath.Dir(self), "..", "..", "..", "migrations")

	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no migrations in %s", dir)
	sort.Strings(files)
	return files
}
