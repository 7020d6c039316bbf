package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brayn-ai/brayn-backend/internal/models"
)

const (
	batchSize     = 50
	flushInterval = 5 * time.Second
)

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	db    *gorm.DB
	attrs []slog.Attr
	state *dbState
}

type dbState struct {
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	h := &DBHandler{
		db: db,
		state: &dbState{
			buffer: make([]models.SystemLog, 0, batchSize),
			ticker: time.NewTicker(flushInterval),
			done:   make(chan struct{}),
		},
	}
	h.state.wg.Add(1)
	go h.flushLoop()
	return h
}

func (h *DBHandler) flushLoop() {
	defer h.state.wg.Done()
	for {
		select {
		case <-h.state.ticker.C:
			h.Flush()
		case <-h.state.done:
			h.Flush()
			return
		}
	}
}

// Flush writes everything buffered so far.
func (h *DBHandler) Flush() {
	s := h.state
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	if err := h.db.CreateInBatches(batch, batchSize).Error; err != nil {
		// logged at Warn so the record is not routed back into this handler
		slog.Warn("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop flushes pending records and ends the background loop.
func (h *DBHandler) Stop() {
	h.state.ticker.Stop()
	close(h.state.done)
	h.state.wg.Wait()
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "generation_id":
			s := a.Value.String()
			entry.GenerationID = &s
		case "provider":
			entry.Provider = a.Value.String()
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.state
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= batchSize
	s.mu.Unlock()

	if needFlush {
		go h.Flush()
	}
	return nil
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{db: h.db, attrs: merged, state: h.state}
}

func (h *DBHandler) WithGroup(string) slog.Handler {
	return h
}
