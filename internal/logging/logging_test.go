package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brayn-ai/brayn-backend/internal/database"
	"github.com/brayn-ai/brayn-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestDBHandler_PersistsErrorsOnly(t *testing.T) {
	db := newTestDB(t)
	h := NewDBHandler(db)

	var stdout bytes.Buffer
	logger := slog.New(NewMultiHandler(NewJSONHandler(&stdout), h))

	genID := uuid.NewString()
	logger.Info("just info")
	logger.With("request_id", "req-1").Error("provider failed",
		"user_id", "u-1",
		"generation_id", genID,
		"provider", "gemini",
		"action", "generate_article",
		"error", "quota",
		"attempt", 1,
	)
	h.Stop()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "provider failed", row.Message)
	assert.Equal(t, "req-1", row.RequestID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)
	require.NotNil(t, row.GenerationID)
	assert.Equal(t, genID, *row.GenerationID)
	assert.Equal(t, "gemini", row.Provider)
	assert.Equal(t, "generate_article", row.Action)
	assert.Equal(t, "quota", row.Error)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.EqualValues(t, 1, extra["attempt"])

	assert.Contains(t, stdout.String(), "just info")
	assert.Contains(t, stdout.String(), "provider failed")
}

func TestCleanup_DeletesOlderThanCutoff(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	old := models.SystemLog{ID: uuid.New(), Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"}
	fresh := models.SystemLog{ID: uuid.New(), Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "fresh"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	deleted, err := Cleanup(db, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].Message)
}
