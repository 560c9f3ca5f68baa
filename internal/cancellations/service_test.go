package cancellations

import (
	"context"
	"testing"

	"estates-backend/internal/flats"
	"estates-backend/internal/models"
	"estates-backend/internal/schedule"
	"estates-backend/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupCancellationsTest(t *testing.T) (*Service, *gorm.DB, *schedule.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Flat{}, &models.Cancellation{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	scheduleService := &schedule.Service{Rdb: rdb}

	service := &Service{DB: db, Flats: &flats.Service{DB: db}, Schedule: scheduleService}
	return service, db, scheduleService
}

func seedCancellation(t *testing.T, db *gorm.DB, id, invID string, version int, phone string) {
	require.NoError(t, db.Create(&models.Cancellation{
		ID: id, InvID: invID, Version: version,
		Customer:        datatypes.NewJSONType(models.InvoiceCustomer{Name: "Rahul", PAN: "ABCDE1234F", Phone: phone}),
		NetReturn:       300000,
		AlreadyReturned: 100000,
		YetToBeReturned: 200000,
	}).Error)
}

func TestRootAndLatest_ByVersionOrdinal(t *testing.T) {
	s, db, _ := setupCancellationsTest(t)
	seedCancellation(t, db, "can-1", "inv-1", 1, "")
	seedCancellation(t, db, "can-2", "inv-1", 2, "")
	seedCancellation(t, db, "can-3", "inv-1", 3, "")
	// A different chain must not leak in.
	seedCancellation(t, db, "other-1", "inv-9", 1, "")

	for _, start := range []string{"can-1", "can-2", "can-3"} {
		root, err := s.Root(context.Background(), start)
		require.NoError(t, err)
		assert.Equal(t, "can-1", root.ID)

		latest, err := s.Latest(context.Background(), start)
		require.NoError(t, err)
		assert.Equal(t, "can-3", latest.ID)
	}
}

func TestCreateVersion_OrdinalsIncrementPerChain(t *testing.T) {
	s, _, _ := setupCancellationsTest(t)

	first := &models.Cancellation{ID: "can-1", InvID: "inv-1"}
	require.NoError(t, s.CreateVersion(context.Background(), first))
	assert.Equal(t, 1, first.Version)

	second := &models.Cancellation{ID: "can-2", InvID: "inv-1"}
	require.NoError(t, s.CreateVersion(context.Background(), second))
	assert.Equal(t, 2, second.Version)

	otherChain := &models.Cancellation{ID: "x-1", InvID: "inv-2"}
	require.NoError(t, s.CreateVersion(context.Background(), otherChain))
	assert.Equal(t, 1, otherChain.Version)
}

func TestCreateVersion_DuplicateOrdinalRejected(t *testing.T) {
	_, db, _ := setupCancellationsTest(t)
	seedCancellation(t, db, "can-1", "inv-1", 1, "")

	err := db.Create(&models.Cancellation{ID: "can-1b", InvID: "inv-1", Version: 1}).Error
	assert.Error(t, err)
}

// TestAttachToFlat_FreesFlatAndClearsSchedule: attaching a cancellation is
// an exit; the flat resets fully and the visit slot is removed.
func TestAttachToFlat_FreesFlatAndClearsSchedule(t *testing.T) {
	s, db, scheduleService := setupCancellationsTest(t)
	require.NoError(t, db.Create(&models.Flat{
		ProjectID: "p1", FlatID: "A-1-101", Block: "A", Floor: 1, FlatNo: "101",
		Status: models.FlatStatusSold,
	}).Error)
	require.NoError(t, db.Model(&models.Flat{}).
		Where("project_id = ? AND flat_id = ?", "p1", "A-1-101").
		Updates(map[string]interface{}{"latest_invoice_id": "inv-2", "root_invoice_id": "inv-1"}).Error)
	seedCancellation(t, db, "can-1", "inv-1", 1, "9876543210")
	seedCancellation(t, db, "can-2", "inv-1", 2, "9876543210")
	require.NoError(t, scheduleService.Upsert(context.Background(), "9876543210", "2026-09-15"))

	result, err := s.AttachToFlat(context.Background(), "can-1", "p1", "A-1-101", "9876543210")
	require.NoError(t, err)
	assert.Equal(t, models.FlatStatusFree, result.FlatStatus)
	assert.Equal(t, "can-2", result.LatestCancellationID)
	assert.Equal(t, "can-1", result.RootCancellationID)

	var flat models.Flat
	require.NoError(t, db.Where("project_id = ? AND flat_id = ?", "p1", "A-1-101").First(&flat).Error)
	assert.Equal(t, models.FlatStatusFree, flat.Status)
	assert.Nil(t, flat.LatestInvoiceID)
	assert.Nil(t, flat.RootInvoiceID)
	require.NotNil(t, flat.LatestCancellationID)
	assert.Equal(t, "can-2", *flat.LatestCancellationID)

	_, err = scheduleService.Get(context.Background(), "9876543210")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAttachToFlat_MissingFlat(t *testing.T) {
	s, db, _ := setupCancellationsTest(t)
	seedCancellation(t, db, "can-1", "inv-1", 1, "")

	_, err := s.AttachToFlat(context.Background(), "can-1", "nope", "nope", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSummaryForFlat(t *testing.T) {
	s, db, _ := setupCancellationsTest(t)
	require.NoError(t, db.Create(&models.Flat{
		ProjectID: "p1", FlatID: "A-1-101", Block: "A", Floor: 1, FlatNo: "101",
		Status: models.FlatStatusFree,
	}).Error)
	seedCancellation(t, db, "can-1", "inv-1", 1, "9876543210")
	require.NoError(t, db.Model(&models.Flat{}).
		Where("project_id = ? AND flat_id = ?", "p1", "A-1-101").
		Updates(map[string]interface{}{"latest_cancellation_id": "can-1", "root_cancellation_id": "can-1"}).Error)

	summary, err := s.SummaryForFlat(context.Background(), "p1", "A-1-101")
	require.NoError(t, err)
	assert.Equal(t, "Rahul", summary.CustomerName)
	assert.Equal(t, float64(300000), summary.NetReturn)
	assert.Equal(t, float64(100000), summary.AlreadyReturned)
	assert.Equal(t, float64(200000), summary.YetToBeReturned)
}

func TestSummaryForFlat_NoneLinked(t *testing.T) {
	s, db, _ := setupCancellationsTest(t)
	require.NoError(t, db.Create(&models.Flat{
		ProjectID: "p1", FlatID: "A-1-101", Block: "A", Floor: 1, FlatNo: "101",
	}).Error)

	_, err := s.SummaryForFlat(context.Background(), "p1", "A-1-101")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSwapLatest_StaleGuardAndDetach(t *testing.T) {
	s, db, scheduleService := setupCancellationsTest(t)
	require.NoError(t, db.Create(&models.Flat{
		ProjectID: "p1", FlatID: "A-1-101", Block: "A", Floor: 1, FlatNo: "101",
		Status: models.FlatStatusFree,
	}).Error)
	seedCancellation(t, db, "can-1", "inv-1", 1, "9876543210")
	seedCancellation(t, db, "can-2", "inv-1", 2, "9876543210")
	require.NoError(t, db.Model(&models.Flat{}).
		Where("project_id = ? AND flat_id = ?", "p1", "A-1-101").
		Updates(map[string]interface{}{"latest_cancellation_id": "can-1", "root_cancellation_id": "can-1"}).Error)

	require.NoError(t, s.SwapLatest(context.Background(), "can-1", "can-2"))

	// The stale expectation now misses: no flat holds can-1 anymore.
	err := s.SwapLatest(context.Background(), "can-1", "can-2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Detach with the up-to-date id clears everything and the visit slot.
	require.NoError(t, scheduleService.Upsert(context.Background(), "9876543210", "2026-09-15"))
	require.NoError(t, s.SwapLatest(context.Background(), "can-2", ""))

	var flat models.Flat
	require.NoError(t, db.Where("project_id = ? AND flat_id = ?", "p1", "A-1-101").First(&flat).Error)
	assert.Nil(t, flat.LatestCancellationID)
	assert.Nil(t, flat.RootCancellationID)
	assert.Equal(t, models.FlatStatusFree, flat.Status)

	_, err = scheduleService.Get(context.Background(), "9876543210")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
