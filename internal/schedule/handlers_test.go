package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"estates-backend/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduleTest(t *testing.T) (*Handlers, *Service) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	service := &Service{Rdb: rdb}
	return &Handlers{Service: service}, service
}

func newScheduleApp(h *Handlers) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/schedule", h.Upsert)
	app.Get("/api/v1/schedule/:phone", h.Get)
	return app
}

func TestUpsert_LastWriteWins(t *testing.T) {
	h, service := setupScheduleTest(t)
	app := newScheduleApp(h)

	post := func(date string) int {
		body, _ := json.Marshal(map[string]string{"phone": "9876543210", "date": date})
		req := httptest.NewRequest("POST", "/api/v1/schedule", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, post("2026-09-15"))
	assert.Equal(t, fiber.StatusOK, post("2026-09-20"))

	entry, err := service.Get(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-20", entry.Date)
}

func TestUpsert_InvalidDate(t *testing.T) {
	h, _ := setupScheduleTest(t)
	app := newScheduleApp(h)

	for _, date := range []string{"15-09-2026", "2026/09/15", "tomorrow", "2026-9-5"} {
		body, _ := json.Marshal(map[string]string{"phone": "9876543210", "date": date})
		req := httptest.NewRequest("POST", "/api/v1/schedule", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "date %q", date)
	}
}

func TestUpsert_MissingFields(t *testing.T) {
	h, _ := setupScheduleTest(t)
	app := newScheduleApp(h)

	body, _ := json.Marshal(map[string]string{"phone": "9876543210"})
	req := httptest.NewRequest("POST", "/api/v1/schedule", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestGet_MissingSlotIsNotAnError: the lookup answers 200 with empty data so
// the booking page can render without a slot.
func TestGet_MissingSlotIsNotAnError(t *testing.T) {
	h, _ := setupScheduleTest(t)
	app := newScheduleApp(h)

	req := httptest.NewRequest("GET", "/api/v1/schedule/9876543210", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "No schedule found for this phone", envelope.Message)
}

func TestDelete_Idempotent(t *testing.T) {
	_, service := setupScheduleTest(t)

	require.NoError(t, service.Upsert(context.Background(), "9876543210", "2026-09-15"))
	require.NoError(t, service.Delete(context.Background(), "9876543210"))
	require.NoError(t, service.Delete(context.Background(), "9876543210"))
	require.NoError(t, service.Delete(context.Background(), ""))

	_, err := service.Get(context.Background(), "9876543210")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
