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

	"badir-backend/internal/pkg/apperr"

	"github.com/google/uuid"
)

// Buckets the platform writes to.
const (
	BucketAvatars    = "avatars"
	BucketOrgLogos   = "org-logos"
	BucketOrgDocs    = "org-docs"
	BucketPostImages = "post-images"
)

// ValidBucket reports whether clients may request uploads into bucket.
func ValidBucket(bucket string) bool {
	switch bucket {
	case BucketAvatars, BucketOrgLogos, BucketOrgDocs, BucketPostImages:
		return true
	}
	return false
}

// StorageClient is what we need from Supabase storage.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error)
	DeleteObject(ctx context.Context, bucket, path string) error
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
	Path           string `json:"path"`
}

func (c *HTTPClient) httpClient() *http.Client {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return c.Client
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error) {
	if c.BaseURL == "" || c.SecretKey == "" {
		return "", apperr.New(apperr.Upstream, "خدمة التخزين غير مهيأة")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, path)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"expiresIn": 3600,
		"upsert":    false,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "فشل الاتصال بخدمة التخزين", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.Wrap(apperr.Upstream, "فشل إنشاء رابط الرفع",
			fmt.Errorf("storage status %d body %s", resp.StatusCode, string(respBody)))
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", err
	}
	// The API can return signedUrl, signed_url, or a relative url.
	if data.SignedURL != "" {
		return data.SignedURL, nil
	}
	if data.SignedURLSnake != "" {
		return data.SignedURLSnake, nil
	}
	if data.URL != "" {
		u := data.URL
		if u[0] != '/' {
			u = "/" + u
		}
		return base + u, nil
	}
	return "", apperr.New(apperr.Upstream, "فشل إنشاء رابط الرفع")
}

func (c *HTTPClient) DeleteObject(ctx context.Context, bucket, path string) error {
	if c.BaseURL == "" || c.SecretKey == "" {
		return apperr.New(apperr.Upstream, "خدمة التخزين غير مهيأة")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "فشل الاتصال بخدمة التخزين", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Wrap(apperr.Upstream, "فشل حذف الملف",
			fmt.Errorf("storage status %d", resp.StatusCode))
	}
	return nil
}

// Service encapsulates upload logic.
type Service struct {
	Client  StorageClient
	BaseURL string
}

// UploadResult is the payload clients use to PUT the file themselves.
type UploadResult struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

// GetSignedUploadURL generates a signed upload URL scoped to the actor's
// folder; file names are randomized to avoid collisions.
func (s *Service) GetSignedUploadURL(ctx context.Context, bucket, userID, fileName string) (*UploadResult, error) {
	path := fmt.Sprintf("%s/%s-%s", userID, uuid.New().String(), sanitizeFileName(fileName))

	signedURL, err := s.Client.CreateSignedUploadURL(ctx, bucket, path)
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		UploadURL: signedURL,
		PublicURL: s.GetPublicURL(bucket, path),
		Path:      path,
	}, nil
}

// GetPublicURL builds the public object URL for a stored path.
func (s *Service) GetPublicURL(bucket, path string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base, bucket, path)
}

// DeleteFile removes a stored object (e.g. a replaced avatar).
func (s *Service) DeleteFile(ctx context.Context, bucket, path string) error {
	return s.Client.DeleteObject(ctx, bucket, path)
}

func sanitizeFileName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "-")
}
