package uploads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auditnet-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignDocumentUpload(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "object/upload/sign/docs/x?token=abc"})
	}))
	defer srv.Close()

	s := &Service{
		Client: &HTTPClient{BaseURL: srv.URL, SecretKey: "service-role"},
		Bucket: "documents",
	}
	res, err := s.SignDocumentUpload(context.Background(), domain.DocumentSocpaLicense, "My License (2024).pdf")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Path, "socpa_license/"))
	assert.True(t, strings.HasSuffix(res.Path, "-My_License_2024_.pdf"))
	assert.Equal(t, srv.URL+"/object/upload/sign/docs/x?token=abc", res.UploadURL)
	assert.Equal(t, "/storage/v1/object/upload/sign/documents/"+res.Path, gotPath)
	assert.Equal(t, "service-role", gotKey)
}

func TestSignDocumentUpload_Validation(t *testing.T) {
	s := &Service{Client: &HTTPClient{}, Bucket: "documents"}

	_, err := s.SignDocumentUpload(context.Background(), domain.DocumentOther, "  ")
	assert.ErrorIs(t, err, ErrFileNameRequired)

	_, err = s.SignDocumentUpload(context.Background(), "SELFIE", "a.png")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = s.SignDocumentUpload(context.Background(), domain.DocumentOther, "a.png")
	assert.ErrorContains(t, err, "SUPABASE_URL")
}

func TestHTTPClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL, SecretKey: "anon"}
	_, err := c.CreateSignedUploadURL(context.Background(), "documents", "a.pdf")
	assert.ErrorContains(t, err, "status 403")
}
