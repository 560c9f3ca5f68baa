package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// signedURLTTL is how long an issued upload URL stays valid.
const signedURLTTL = 300 * time.Second

// allowedTypes is the MIME allow-list for identity documents.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// StorageClient is what the service needs from object storage.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error)
	DeleteObjects(ctx context.Context, bucket string, keys []string) error
}

// HTTPClient is a StorageClient backed by the Supabase storage HTTP API.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

type signedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"`
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" || c.SecretKey == "" {
		return "", fmt.Errorf("storage: SUPABASE_URL and SUPABASE_SECRET_KEY must be set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, path)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"expiresIn": int(expiresIn.Seconds()),
		"upsert":    false,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	c.setAuth(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, respBody)
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("storage response decode: %w", err)
	}
	switch {
	case data.SignedURL != "":
		return data.SignedURL, nil
	case data.SignedURLSnake != "":
		return data.SignedURLSnake, nil
	case data.URL != "":
		u := data.URL
		if u[0] != '/' {
			u = "/" + u
		}
		return base + u, nil
	}
	return "", fmt.Errorf("storage returned no signed URL")
}

func (c *HTTPClient) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/%s", base, bucket)

	bodyBytes, _ := json.Marshal(map[string]interface{}{"prefixes": keys})
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	c.setAuth(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, respBody)
	}
	return nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
}

// Service issues presigned upload URLs for KYC identity documents.
type Service struct {
	Client StorageClient
	Bucket string
}

// PresignInput carries the MIME type per requested document; aadhaar and
// pan are mandatory, voter and other optional.
type PresignInput struct {
	AadhaarType string `json:"aadhaarType"`
	PANType     string `json:"panType"`
	VoterType   string `json:"voterType"`
	OtherType   string `json:"otherType"`
}

// SignedDoc is one issued upload slot.
type SignedDoc struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PresignResult carries the generated customer id and one slot per document.
type PresignResult struct {
	CustomerID string     `json:"customerId"`
	Aadhaar    SignedDoc  `json:"aadhaar"`
	PAN        SignedDoc  `json:"pan"`
	Voter      *SignedDoc `json:"voter"`
	Other      *SignedDoc `json:"other"`
}

// ValidateTypes checks every requested MIME type against the allow-list
// before any URL is issued.
func (in PresignInput) ValidateTypes() error {
	if !allowedTypes[in.AadhaarType] || !allowedTypes[in.PANType] {
		return fmt.Errorf("Invalid Aadhaar or PAN file type")
	}
	if in.VoterType != "" && !allowedTypes[in.VoterType] {
		return fmt.Errorf("Invalid Voter ID file type")
	}
	if in.OtherType != "" && !allowedTypes[in.OtherType] {
		return fmt.Errorf("Invalid Other ID file type")
	}
	return nil
}

// Presign issues signed upload URLs under kyc/<customerId>/<doc>.
func (s *Service) Presign(ctx context.Context, in PresignInput) (*PresignResult, error) {
	if err := in.ValidateTypes(); err != nil {
		return nil, err
	}

	customerID := uuid.NewString()
	base := "kyc/" + customerID

	sign := func(doc string) (SignedDoc, error) {
		key := base + "/" + doc
		url, err := s.Client.CreateSignedUploadURL(ctx, s.Bucket, key, signedURLTTL)
		if err != nil {
			return SignedDoc{}, err
		}
		return SignedDoc{Key: key, URL: url}, nil
	}

	result := &PresignResult{CustomerID: customerID}
	var err error
	if result.Aadhaar, err = sign("aadhaar"); err != nil {
		return nil, err
	}
	if result.PAN, err = sign("pan"); err != nil {
		return nil, err
	}
	if in.VoterType != "" {
		doc, err := sign("voter")
		if err != nil {
			return nil, err
		}
		result.Voter = &doc
	}
	if in.OtherType != "" {
		doc, err := sign("other")
		if err != nil {
			return nil, err
		}
		result.Other = &doc
	}
	return result, nil
}

// RemoveObjects deletes stored documents; satisfies kyc.DocumentRemover.
func (s *Service) RemoveObjects(ctx context.Context, keys []string) error {
	return s.Client.DeleteObjects(ctx, s.Bucket, keys)
}
