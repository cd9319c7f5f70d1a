package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/pkg/ids"
)

var (
	ErrFileNameRequired = errors.New("file_name is required")
	ErrInvalidCategory  = errors.New("Invalid document category")
)

// StorageClient signs direct-to-storage uploads.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error)
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
	URL            string `json:"url"` // relative path returned by upload/sign
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("supabase: SUPABASE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("supabase: SUPABASE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, path)

	body, _ := json.Marshal(map[string]interface{}{"expiresIn": 3600, "upsert": false})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("supabase error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("supabase response decode: %w", err)
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
	return "", fmt.Errorf("supabase returned no signed URL, body: %s", string(respBody))
}

// Service hands out upload URLs for organization and registrant documents.
type Service struct {
	Client      StorageClient
	SupabaseURL string
	Bucket      string
}

// UploadResult carries the signed URL and the storage path to send back at organization setup.
type UploadResult struct {
	UploadURL string                  `json:"uploadUrl"`
	Path      string                  `json:"path"`
	Category  domain.DocumentCategory `json:"category"`
}

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SignDocumentUpload returns a signed URL for uploading fileName under the category's folder.
// Paths are unique per call so that two uploads with the same name never collide.
func (s *Service) SignDocumentUpload(ctx context.Context, category domain.DocumentCategory, fileName string) (*UploadResult, error) {
	name := strings.Trim(unsafePathChars.ReplaceAllString(strings.TrimSpace(fileName), "_"), "_")
	if name == "" {
		return nil, ErrFileNameRequired
	}
	if !domain.IsValidDocumentCategory(category) {
		return nil, ErrInvalidCategory
	}
	path := fmt.Sprintf("%s/%s-%s", strings.ToLower(string(category)), strings.ToLower(ids.New()), name)

	signed, err := s.Client.CreateSignedUploadURL(ctx, s.Bucket, path)
	if err != nil {
		return nil, err
	}
	return &UploadResult{UploadURL: signed, Path: path, Category: category}, nil
}
