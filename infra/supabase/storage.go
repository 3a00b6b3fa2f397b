// Package supabase implements the object-storage contract against the
// Supabase Storage REST API. Only the endpoints the service needs are
// covered: bucket list/create, object upload, public URL resolution, object
// listing and bulk removal.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/osuhe/remesas/pkg/config"
	"github.com/osuhe/remesas/pkg/domain"
	"github.com/osuhe/remesas/pkg/storage"
)

// Client talks to one Supabase project's storage API with the service-role
// key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	// sizeLimit is applied to newly created buckets.
	sizeLimit int64
}

var _ storage.Client = (*Client)(nil)

// NewClient builds the storage client from configuration.
func NewClient(cfg config.SupabaseConfig, sizeLimit int64, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.ServiceRoleKey,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
		sizeLimit:  sizeLimit,
	}
}

type bucket struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

type apiError struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode string `json:"statusCode"`
}

// EnsureBucket lists the project's buckets and creates the target as a
// public bucket when absent. A create that races another caller and comes
// back "already exists" counts as success.
func (c *Client) EnsureBucket(ctx context.Context, name string) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/storage/v1/bucket", nil, "")
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: list buckets: %s", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: list buckets returned %d: %s", domain.ErrStorageUnavailable, resp.StatusCode, readBody(resp.Body))
	}

	var buckets []bucket
	if err := json.NewDecoder(resp.Body).Decode(&buckets); err != nil {
		return fmt.Errorf("%w: decode bucket list: %s", domain.ErrStorageUnavailable, err)
	}
	for _, b := range buckets {
		if b.Name == name {
			return nil
		}
	}

	c.logger.Info("bucket missing, creating it", "bucket", name)
	body, _ := json.Marshal(map[string]any{
		"name":            name,
		"public":          true,
		"file_size_limit": c.sizeLimit,
	})
	req, err = c.newRequest(ctx, http.MethodPost, "/storage/v1/bucket", bytes.NewReader(body), "application/json")
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, err)
	}
	resp, err = c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: create bucket: %s", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	raw := readBody(resp.Body)
	if isAlreadyExists(resp.StatusCode, raw) {
		// Lost the creation race; the bucket is there, which is all we need.
		return nil
	}
	return fmt.Errorf("%w: create bucket returned %d: %s", domain.ErrStorageUnavailable, resp.StatusCode, raw)
}

// Upload stores the object under bucket/key. The x-upsert header carries
// the overwrite policy.
func (c *Client) Upload(ctx context.Context, bucketName, key string, data []byte, opts storage.UploadOptions) (string, error) {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req, err := c.newRequest(ctx, http.MethodPost,
		fmt.Sprintf("/storage/v1/object/%s/%s", bucketName, key),
		bytes.NewReader(data), contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, err)
	}
	req.Header.Set("x-upsert", fmt.Sprintf("%t", opts.Overwrite))
	req.Header.Set("cache-control", "3600")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: upload: %s", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: upload returned %d: %s", domain.ErrStorageUnavailable, resp.StatusCode, readBody(resp.Body))
	}

	var uploaded struct {
		Key string `json:"Key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("%w: decode upload response: %s", domain.ErrStorageUnavailable, err)
	}
	if uploaded.Key == "" {
		uploaded.Key = bucketName + "/" + key
	}
	return uploaded.Key, nil
}

// PublicURL returns the stable public object URL. Resolution is purely
// syntactic; no request is made.
func (c *Client) PublicURL(bucketName, key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucketName, key)
}

type listedObject struct {
	// ID is null for folder placeholder entries, which is how the API
	// distinguishes them from objects.
	ID        *string   `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Metadata  *struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

// ListObjects pages through one folder level of the bucket, newest first.
// Folder entries come back flagged; callers descend with the folder name as
// the next prefix.
func (c *Client) ListObjects(ctx context.Context, bucketName, prefix string, limit, offset int) ([]domain.StoredObject, error) {
	body, _ := json.Marshal(map[string]any{
		"prefix": prefix,
		"limit":  limit,
		"offset": offset,
		"sortBy": map[string]string{"column": "created_at", "order": "desc"},
	})
	req, err := c.newRequest(ctx, http.MethodPost,
		"/storage/v1/object/list/"+bucketName,
		bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list objects: %s", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list objects returned %d: %s", domain.ErrStorageUnavailable, resp.StatusCode, readBody(resp.Body))
	}

	var listed []listedObject
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, fmt.Errorf("%w: decode object list: %s", domain.ErrStorageUnavailable, err)
	}
	out := make([]domain.StoredObject, 0, len(listed))
	for _, o := range listed {
		so := domain.StoredObject{
			Name:      o.Name,
			CreatedAt: o.CreatedAt,
			IsFolder:  o.ID == nil,
		}
		if o.Metadata != nil {
			so.Size = o.Metadata.Size
		}
		out = append(out, so)
	}
	return out, nil
}

// RemoveObjects deletes the given keys in one call and returns the keys the
// backend confirmed removed.
func (c *Client) RemoveObjects(ctx context.Context, bucketName string, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	body, _ := json.Marshal(map[string]any{"prefixes": keys})
	req, err := c.newRequest(ctx, http.MethodDelete,
		"/storage/v1/object/"+bucketName,
		bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: remove objects: %s", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: remove objects returned %d: %s", domain.ErrStorageUnavailable, resp.StatusCode, readBody(resp.Body))
	}

	var removed []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&removed); err != nil {
		return nil, fmt.Errorf("%w: decode remove response: %s", domain.ErrStorageUnavailable, err)
	}
	names := make([]string, 0, len(removed))
	for _, r := range removed {
		names = append(names, r.Name)
	}
	return names, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func isAlreadyExists(status int, body string) bool {
	if status == http.StatusConflict {
		return true
	}
	var e apiError
	if err := json.Unmarshal([]byte(body), &e); err == nil {
		msg := strings.ToLower(e.Message + " " + e.Error)
		return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate")
	}
	return false
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	return string(b)
}
