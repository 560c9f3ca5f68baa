package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"estates-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupPaymentsTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Payment{}))
	return &Service{DB: db}
}

func seedPayments(t *testing.T, s *Service, n int) {
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		require.NoError(t, s.DB.Create(&models.Payment{
			PaymentID:      fmt.Sprintf("pay-%03d", i),
			ProjectFlatKey: "p1#A-1-101",
			ProjectID:      "p1",
			ProjectName:    "Green Acres",
			FlatID:         "A-1-101",
			Customer:       datatypes.NewJSONType(models.PaymentCustomer{ID: "cust-1", Name: "Rahul Sharma"}),
			Amount:         float64(1000 * (i + 1)),
			Summary:        "installment",
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
}

func TestList_Pagination(t *testing.T) {
	s := setupPaymentsTest(t)
	seedPayments(t, s, 25)

	page, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, page.Payments, 10)
	assert.Equal(t, int64(25), page.TotalCount)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	// Newest first.
	assert.Equal(t, "pay-024", page.Payments[0].PaymentID)

	page, err = s.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, page.Payments, 5)
	assert.Equal(t, 3, page.CurrentPage)

	page, err = s.List(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, page.Payments)
	assert.Equal(t, int64(25), page.TotalCount)
}

func TestList_PageFloor(t *testing.T) {
	s := setupPaymentsTest(t)
	seedPayments(t, s, 3)

	page, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Payments, 3)
}

func TestByFlat_NewestFirst(t *testing.T) {
	s := setupPaymentsTest(t)
	seedPayments(t, s, 3)
	// A record for another flat must not appear.
	require.NoError(t, s.DB.Create(&models.Payment{
		PaymentID: "other", ProjectFlatKey: "p2#B-2-202", ProjectID: "p2", FlatID: "B-2-202", Amount: 5,
	}).Error)

	history, err := s.ByFlat(context.Background(), "p1", "A-1-101")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "pay-002", history[0].PaymentID)
	assert.Equal(t, "pay-000", history[2].PaymentID)
}

func TestSearch_MatchesAcrossFields(t *testing.T) {
	s := setupPaymentsTest(t)
	seedPayments(t, s, 2)

	// Project name, case-folded.
	page, err := s.Search(context.Background(), "green ACRES", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)

	// Customer name inside the JSON snapshot.
	page, err = s.Search(context.Background(), "rahul", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)

	// Exact payment id.
	page, err = s.Search(context.Background(), "pay-001", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)

	page, err = s.Search(context.Background(), "no-such-thing", 1)
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
	assert.Empty(t, page.Payments)
}

func TestAppend_BuildsProjectFlatKey(t *testing.T) {
	s := setupPaymentsTest(t)
	id, err := s.Append(context.Background(), AppendInput{
		ProjectID: "p1", ProjectName: "Green Acres", FlatID: "A-1-101",
		Customer: models.PaymentCustomer{ID: "cust-1", Name: "Rahul"},
		Amount:   1000, Summary: "advance",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	var payment models.Payment
	require.NoError(t, s.DB.Where("payment_id = ?", id).First(&payment).Error)
	assert.Equal(t, "p1#A-1-101", payment.ProjectFlatKey)
	assert.Equal(t, "Rahul", payment.Customer.Data().Name)
}
