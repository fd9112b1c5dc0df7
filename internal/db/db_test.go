package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-buddy/internal/config"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := config.DBConfig{Driver: "sqlite"}
	cfg.Names.StudyBuddy = filepath.Join(t.TempDir(), "test.db")

	conn, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	require.NoError(t, Ping(context.Background(), conn))

	for _, table := range []string{"users", "notes", "quizzes", "results"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.DBConfig{
		Host:     "localhost",
		Port:     5432,
		Username: "buddy",
		SSLMode:  "disable",
	}
	cfg.Names.StudyBuddy = "study_buddy"
	cfg.Password.Value = "pw"

	assert.Equal(t, "host=localhost port=5432 user=buddy password=pw dbname=study_buddy sslmode=disable", PostgresDSN(cfg))
}
