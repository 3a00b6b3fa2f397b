// Package document implements the upload pipeline: decode a client payload,
// provision the bucket, store the object and resolve its public URL, or
// degrade to a placeholder reference when the storage backend is down.
//
// The pipeline deliberately never fails a submission over a backend outage:
// validation and payload errors are the caller's fault and surface as
// errors, while any availability failure after that point produces a tagged
// fallback result so the surrounding transaction flow still completes.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/osuhe/remesas/pkg/config"
	"github.com/osuhe/remesas/pkg/document"
	"github.com/osuhe/remesas/pkg/domain"
	"github.com/osuhe/remesas/pkg/storage"
)

// UploadInput identifies one document upload request.
type UploadInput struct {
	TransactionID string
	FileName      string
	DataURI       string
}

// UploadResult is the outcome of an upload. When Fallback is set the URL is
// a synthetic placeholder and Reason carries the backend error text.
type UploadResult struct {
	URL      string
	Key      string
	FileName string
	MIME     string
	Size     int64
	Fallback bool
	Reason   string
}

// Service orchestrates codec, bucket provisioning and object storage.
type Service struct {
	storage storage.Client
	bucket  string
	max     int64
	strict  bool
	batch   int
	logger  *slog.Logger

	// now is swapped in tests to pin the key timestamp.
	now func() time.Time
}

// NewService builds the pipeline from storage settings.
func NewService(s storage.Client, cfg config.StorageConfig, logger *slog.Logger) *Service {
	batch := cfg.DeleteBatchSize
	if batch <= 0 {
		batch = 100
	}
	return &Service{
		storage: s,
		bucket:  cfg.Bucket,
		max:     cfg.MaxUploadBytes,
		strict:  cfg.Strict,
		batch:   batch,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload runs the pipeline for a fresh document. Keys are unique per call
// through the millisecond timestamp; two calls for the same transaction in
// the same millisecond can still collide, which is accepted rather than
// guarded (the retry simply lands on a new timestamp).
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	return s.upload(ctx, in, false)
}

// Replace re-uploads a document allowing the key to be overwritten. Used by
// explicit re-upload flows only; fresh uploads keep overwrite disabled.
func (s *Service) Replace(ctx context.Context, in UploadInput) (*UploadResult, error) {
	return s.upload(ctx, in, true)
}

func (s *Service) upload(ctx context.Context, in UploadInput, overwrite bool) (*UploadResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	file, err := document.Decode(in.FileName, in.DataURI, s.max)
	if err != nil {
		return nil, err
	}

	if err := s.storage.EnsureBucket(ctx, s.bucket); err != nil {
		return s.degrade(in, fmt.Errorf("ensure bucket: %w", err))
	}

	key := fmt.Sprintf("%s/doc_%d.%s", in.TransactionID, s.now().UnixMilli(), document.Extension(in.FileName, file.MIME))

	if _, err := s.storage.Upload(ctx, s.bucket, key, file.Content, storage.UploadOptions{
		ContentType: file.MIME,
		Overwrite:   overwrite,
	}); err != nil {
		return s.degrade(in, fmt.Errorf("upload %s: %w", key, err))
	}

	publicURL := s.storage.PublicURL(s.bucket, key)
	if publicURL == "" {
		return s.degrade(in, fmt.Errorf("no public url for %s", key))
	}

	s.logger.Info("document uploaded",
		"transaction_id", in.TransactionID,
		"key", key,
		"size", len(file.Content),
		"mime", file.MIME,
	)
	return &UploadResult{
		URL:      publicURL,
		Key:      key,
		FileName: in.FileName,
		MIME:     file.MIME,
		Size:     int64(len(file.Content)),
	}, nil
}

// degrade converts a backend failure into a placeholder result so the
// submission can still complete. Strict mode propagates the failure instead.
func (s *Service) degrade(in UploadInput, cause error) (*UploadResult, error) {
	if s.strict {
		if errors.Is(cause, domain.ErrStorageUnavailable) {
			return nil, cause
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrStorageUnavailable, cause)
	}

	s.logger.Warn("document storage unavailable, returning fallback reference",
		"transaction_id", in.TransactionID,
		"file_name", in.FileName,
		"error", cause,
	)
	return &UploadResult{
		URL:      fallbackURL(in.TransactionID),
		FileName: "fallback_" + in.FileName,
		Fallback: true,
		Reason:   cause.Error(),
	}, nil
}

func fallbackURL(transactionID string) string {
	return fmt.Sprintf(
		"https://via.placeholder.com/400x300/10b981/ffffff?text=%s",
		url.QueryEscape("upload-pending "+transactionID),
	)
}

// Delete removes a single stored object by key. A key that matches nothing
// reports domain.ErrNotFound.
func (s *Service) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: missing fileName", domain.ErrInvalidRequest)
	}
	removed, err := s.storage.RemoveObjects(ctx, s.bucket, []string{key})
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return nil
}

// List returns stored objects, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.StoredObject, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.storage.ListObjects(ctx, s.bucket, "", limit, offset)
}

// PurgeAll removes every object in the bucket in batches sized to stay
// under the backend per-call item limit. Returns the number removed.
func (s *Service) PurgeAll(ctx context.Context) (int, error) {
	keys, err := s.collectKeys(ctx, "")
	if err != nil {
		return 0, err
	}

	removed := 0
	for start := 0; start < len(keys); start += s.batch {
		end := start + s.batch
		if end > len(keys) {
			end = len(keys)
		}
		batch, err := s.storage.RemoveObjects(ctx, s.bucket, keys[start:end])
		if err != nil {
			return removed, err
		}
		removed += len(batch)
	}
	return removed, nil
}

// collectKeys walks the bucket depth first. Listings return one folder
// level at a time, so folder entries (the transaction-id directories the
// upload keys create) are descended into rather than collected.
func (s *Service) collectKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for offset := 0; ; offset += s.batch {
		objects, err := s.storage.ListObjects(ctx, s.bucket, prefix, s.batch, offset)
		if err != nil {
			return nil, err
		}
		for _, o := range objects {
			full := o.Name
			if prefix != "" {
				full = prefix + "/" + o.Name
			}
			if o.IsFolder {
				nested, err := s.collectKeys(ctx, full)
				if err != nil {
					return nil, err
				}
				keys = append(keys, nested...)
				continue
			}
			keys = append(keys, full)
		}
		if len(objects) < s.batch {
			break
		}
	}
	return keys, nil
}

func validate(in UploadInput) error {
	var missing []string
	if strings.TrimSpace(in.TransactionID) == "" {
		missing = append(missing, "transactionId")
	}
	if strings.TrimSpace(in.FileName) == "" {
		missing = append(missing, "fileName")
	}
	if strings.TrimSpace(in.DataURI) == "" {
		missing = append(missing, "dataUri")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}
