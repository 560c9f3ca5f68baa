package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"estates-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingRemover captures the keys handed to object storage cleanup.
type recordingRemover struct {
	keys []string
	err  error
}

func (r *recordingRemover) RemoveObjects(ctx context.Context, keys []string) error {
	r.keys = append(r.keys, keys...)
	return r.err
}

func setupKYCTest(t *testing.T) (*Handlers, *gorm.DB, *recordingRemover) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KYCCustomer{}))

	remover := &recordingRemover{}
	service := &Service{DB: db, Documents: remover}
	return &Handlers{Service: service}, db, remover
}

func newKYCApp(h *Handlers) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/customer-kyc", h.Create)
	app.Get("/api/v1/customer-kyc", h.ListAll)
	app.Get("/api/v1/customer-kyc/approved", h.ListApproved)
	app.Get("/api/v1/customer-kyc/pending", h.ListPending)
	app.Get("/api/v1/customer-kyc/search/all", h.SearchAll)
	app.Get("/api/v1/customer-kyc/search/approved", h.SearchApproved)
	app.Patch("/api/v1/customer-kyc/:customerId/approve", h.Approve)
	app.Delete("/api/v1/customer-kyc/:customerId", h.Delete)
	return app
}

func submitKYC(t *testing.T, app *fiber.App, name, phone string) int {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"name":       name,
		"phone":      phone,
		"address":    "12 MG Road",
		"aadhaar":    "123456789012",
		"pan":        "ABCDE1234F",
		"aadhaarKey": "kyc/c1/aadhaar",
		"panKey":     "kyc/c1/pan",
	})
	req := httptest.NewRequest("POST", "/api/v1/customer-kyc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

// TestCreate_DuplicatePhoneRejected: phone number is the uniqueness
// authority; a same-name different-phone customer is fine.
func TestCreate_DuplicatePhoneRejected(t *testing.T) {
	h, _, _ := setupKYCTest(t)
	app := newKYCApp(h)

	assert.Equal(t, fiber.StatusCreated, submitKYC(t, app, "Rahul Sharma", "9876543210"))
	assert.Equal(t, fiber.StatusConflict, submitKYC(t, app, "Someone Else", "9876543210"))
	assert.Equal(t, fiber.StatusCreated, submitKYC(t, app, "Rahul Sharma", "9876500000"))
}

func TestCreate_MissingMandatoryDocs(t *testing.T) {
	h, _, _ := setupKYCTest(t)
	app := newKYCApp(h)

	body, _ := json.Marshal(map[string]string{
		"name":  "Rahul Sharma",
		"phone": "9876543210",
		// aadhaar/pan and keys missing
	})
	req := httptest.NewRequest("POST", "/api/v1/customer-kyc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func seedCustomer(t *testing.T, db *gorm.DB, id, name, phone, aadhaar, pan, status string) {
	require.NoError(t, db.Create(&models.KYCCustomer{
		ID: id, Name: name, NormalizedName: NormalizeName(name),
		Phone: phone, Aadhaar: aadhaar, PAN: pan, NormalizedPAN: NormalizePAN(pan),
		AadhaarKey: "kyc/" + id + "/aadhaar", PANKey: "kyc/" + id + "/pan",
		Status: status,
	}).Error)
}

func listCustomers(t *testing.T, app *fiber.App, path string) (int, []models.KYCCustomer) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	var envelope struct {
		Customers []models.KYCCustomer `json:"customers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope.Customers
}

func TestList_StatusPartitions(t *testing.T) {
	h, db, _ := setupKYCTest(t)
	app := newKYCApp(h)
	seedCustomer(t, db, "c1", "Rahul Sharma", "9876543210", "123456789012", "ABCDE1234F", models.KYCStatusPending)
	seedCustomer(t, db, "c2", "Priya Patel", "9876500001", "123456789013", "FGHIJ5678K", models.KYCStatusApproved)

	code, all := listCustomers(t, app, "/api/v1/customer-kyc")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Len(t, all, 2)

	code, approved := listCustomers(t, app, "/api/v1/customer-kyc/approved")
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, approved, 1)
	assert.Equal(t, "c2", approved[0].ID)

	code, pending := listCustomers(t, app, "/api/v1/customer-kyc/pending")
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, pending, 1)
	assert.Equal(t, "c1", pending[0].ID)
}

// TestSearch_DispatchByQueryShape: one predicate per query, chosen by shape.
func TestSearch_DispatchByQueryShape(t *testing.T) {
	h, db, _ := setupKYCTest(t)
	app := newKYCApp(h)
	seedCustomer(t, db, "c1", "Rahul  Sharma", "9876543210", "123456789012", "ABCDE1234F", models.KYCStatusPending)
	seedCustomer(t, db, "c2", "Priya Patel", "1234567890", "999456789012", "FGHIJ5678K", models.KYCStatusApproved)

	// 10 digits → phone equality, even though it could be a name substring.
	code, got := listCustomers(t, app, "/api/v1/customer-kyc/search/all?query=9876543210")
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	// 12 digits → aadhaar equality.
	code, got = listCustomers(t, app, "/api/v1/customer-kyc/search/all?query=999456789012")
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0].ID)

	// PAN shape, lowercase input still matches via normalization.
	code, got = listCustomers(t, app, "/api/v1/customer-kyc/search/all?query=abcde1234f")
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	// Anything else → partial name, whitespace collapsed.
	code, got = listCustomers(t, app, "/api/v1/customer-kyc/search/all?query=rahul+sharma")
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	// Status partition applies on top of the predicate.
	code, got = listCustomers(t, app, "/api/v1/customer-kyc/search/approved?query=rahul")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, got)
}

func TestSearch_MissingQuery(t *testing.T) {
	h, _, _ := setupKYCTest(t)
	app := newKYCApp(h)

	req := httptest.NewRequest("GET", "/api/v1/customer-kyc/search/all", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestApprove_IsIdempotent(t *testing.T) {
	h, db, _ := setupKYCTest(t)
	app := newKYCApp(h)
	seedCustomer(t, db, "c1", "Rahul Sharma", "9876543210", "123456789012", "ABCDE1234F", models.KYCStatusPending)

	approve := func() int {
		req := httptest.NewRequest("PATCH", "/api/v1/customer-kyc/c1/approve", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}
	assert.Equal(t, fiber.StatusOK, approve())
	assert.Equal(t, fiber.StatusOK, approve())

	var customer models.KYCCustomer
	require.NoError(t, db.Where("id = ?", "c1").First(&customer).Error)
	assert.Equal(t, models.KYCStatusApproved, customer.Status)
}

func TestApprove_MissingCustomer(t *testing.T) {
	h, _, _ := setupKYCTest(t)
	app := newKYCApp(h)

	req := httptest.NewRequest("PATCH", "/api/v1/customer-kyc/ghost/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDelete_RemovesRecordAndDocuments(t *testing.T) {
	h, db, remover := setupKYCTest(t)
	app := newKYCApp(h)
	seedCustomer(t, db, "c1", "Rahul Sharma", "9876543210", "123456789012", "ABCDE1234F", models.KYCStatusPending)

	req := httptest.NewRequest("DELETE", "/api/v1/customer-kyc/c1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.ElementsMatch(t, []string{"kyc/c1/aadhaar", "kyc/c1/pan"}, remover.keys)

	var n int64
	require.NoError(t, db.Model(&models.KYCCustomer{}).Count(&n).Error)
	assert.Zero(t, n)
}

// TestDelete_StorageFailureStillDeletesRecord: document cleanup is best
// effort; a storage outage must not strand the record.
func TestDelete_StorageFailureStillDeletesRecord(t *testing.T) {
	h, db, remover := setupKYCTest(t)
	remover.err = fmt.Errorf("storage down")
	app := newKYCApp(h)
	seedCustomer(t, db, "c1", "Rahul Sharma", "9876543210", "123456789012", "ABCDE1234F", models.KYCStatusPending)

	req := httptest.NewRequest("DELETE", "/api/v1/customer-kyc/c1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var n int64
	require.NoError(t, db.Model(&models.KYCCustomer{}).Count(&n).Error)
	assert.Zero(t, n)
}
