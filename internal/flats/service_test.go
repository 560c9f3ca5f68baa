package flats

import (
	"context"
	"testing"

	"estates-backend/internal/models"
	"estates-backend/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFlatsTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Flat{}))
	return &Service{DB: db}
}

func seedFlat(t *testing.T, s *Service) *models.Flat {
	flat := &models.Flat{
		ProjectID: "green-acres-abc123",
		FlatID:    "A-1-101",
		Block:     "A",
		Floor:     1,
		FlatNo:    "101",
		Status:    models.FlatStatusFree,
	}
	require.NoError(t, s.DB.Create(flat).Error)
	return flat
}

func TestCreateForProject_CompositeIDs(t *testing.T) {
	s := setupFlatsTest(t)
	err := s.CreateForProject(context.Background(), "p1", []FlatInput{
		{Block: "A", Floor: 1, FlatNo: "101"},
		{Block: "B", Floor: 3, FlatNo: "302", Status: models.FlatStatusBooked},
	})
	require.NoError(t, err)

	flat, err := s.Get(context.Background(), "p1", "A-1-101")
	require.NoError(t, err)
	assert.Equal(t, models.FlatStatusFree, flat.Status)

	flat, err = s.Get(context.Background(), "p1", "B-3-302")
	require.NoError(t, err)
	assert.Equal(t, models.FlatStatusBooked, flat.Status)
}

func TestBuildStats(t *testing.T) {
	stats := BuildStats([]FlatInput{
		{Block: "A", FlatNo: "101"},
		{Block: "A", FlatNo: "102", Status: models.FlatStatusSold},
		{Block: "B", FlatNo: "201", Status: models.FlatStatusBooked},
	})
	assert.Equal(t, 3, stats.TotalApartments)
	assert.Equal(t, 2, stats.TotalBlocks)
	assert.Equal(t, 1, stats.SoldApartments)
	assert.Equal(t, 1, stats.BookedApartments)
	assert.Equal(t, 1, stats.FreeApartments)
}

// TestApproveLoan_SecondApprovalRejected: loan approval is one-way and
// applies exactly once.
func TestApproveLoan_SecondApprovalRejected(t *testing.T) {
	s := setupFlatsTest(t)
	flat := seedFlat(t, s)

	approved, err := s.ApproveLoan(context.Background(), flat.ProjectID, flat.FlatID)
	require.NoError(t, err)
	assert.True(t, approved.LoanApproved)
	assert.Equal(t, models.FlatStatusSold, approved.Status)

	_, err = s.ApproveLoan(context.Background(), flat.ProjectID, flat.FlatID)
	assert.ErrorIs(t, err, ErrLoanAlreadyApproved)
}

func TestApproveLoan_MissingFlat(t *testing.T) {
	s := setupFlatsTest(t)
	_, err := s.ApproveLoan(context.Background(), "nope", "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDetachInvoice_ClearsLinksAndFreesFlat(t *testing.T) {
	s := setupFlatsTest(t)
	flat := seedFlat(t, s)
	require.NoError(t, s.AttachInvoice(context.Background(), flat.ProjectID, flat.FlatID, "inv-2", "inv-1", models.FlatStatusSold))

	flat, err := s.Get(context.Background(), flat.ProjectID, flat.FlatID)
	require.NoError(t, err)
	require.NoError(t, s.DetachInvoice(context.Background(), flat, "inv-2"))

	flat, err = s.Get(context.Background(), flat.ProjectID, flat.FlatID)
	require.NoError(t, err)
	assert.Equal(t, models.FlatStatusFree, flat.Status)
	assert.Nil(t, flat.LatestInvoiceID)
	assert.Nil(t, flat.RootInvoiceID)
}

// TestSwapLatestInvoice_StaleGuard: the swap only applies while the flat
// still holds the expected latest id; a stale caller gets a conflict.
func TestSwapLatestInvoice_StaleGuard(t *testing.T) {
	s := setupFlatsTest(t)
	flat := seedFlat(t, s)
	require.NoError(t, s.AttachInvoice(context.Background(), flat.ProjectID, flat.FlatID, "inv-2", "inv-1", models.FlatStatusBooked))
	flat, err := s.Get(context.Background(), flat.ProjectID, flat.FlatID)
	require.NoError(t, err)

	require.NoError(t, s.SwapLatestInvoice(context.Background(), flat, "inv-2", "inv-3", models.FlatStatusSold))

	// The first caller's expectation is now stale.
	err = s.SwapLatestInvoice(context.Background(), flat, "inv-2", "inv-4", models.FlatStatusSold)
	assert.ErrorIs(t, err, store.ErrConflict)

	flat, err = s.Get(context.Background(), flat.ProjectID, flat.FlatID)
	require.NoError(t, err)
	require.NotNil(t, flat.LatestInvoiceID)
	assert.Equal(t, "inv-3", *flat.LatestInvoiceID)
	assert.Equal(t, models.FlatStatusSold, flat.Status)
}

func TestAttachCancellation_ClearsInvoiceLinks(t *testing.T) {
	s := setupFlatsTest(t)
	flat := seedFlat(t, s)
	require.NoError(t, s.AttachInvoice(context.Background(), flat.ProjectID, flat.FlatID, "inv-2", "inv-1", models.FlatStatusSold))

	require.NoError(t, s.AttachCancellation(context.Background(), flat.ProjectID, flat.FlatID, "can-2", "can-1"))

	flat, err := s.Get(context.Background(), flat.ProjectID, flat.FlatID)
	require.NoError(t, err)
	assert.Equal(t, models.FlatStatusFree, flat.Status)
	assert.Nil(t, flat.LatestInvoiceID)
	assert.Nil(t, flat.RootInvoiceID)
	require.NotNil(t, flat.LatestCancellationID)
	assert.Equal(t, "can-2", *flat.LatestCancellationID)
	require.NotNil(t, flat.RootCancellationID)
	assert.Equal(t, "can-1", *flat.RootCancellationID)
}

func TestResetToFree(t *testing.T) {
	s := setupFlatsTest(t)
	flat := seedFlat(t, s)
	require.NoError(t, s.AttachInvoice(context.Background(), flat.ProjectID, flat.FlatID, "inv-1", "inv-1", models.FlatStatusBooked))

	reset, err := s.ResetToFree(context.Background(), flat.ProjectID, flat.FlatID)
	require.NoError(t, err)
	assert.Equal(t, models.FlatStatusFree, reset.Status)
	assert.Nil(t, reset.LatestInvoiceID)

	_, err = s.ResetToFree(context.Background(), "nope", "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
