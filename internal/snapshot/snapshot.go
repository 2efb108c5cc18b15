// Package snapshot backs up the local database to S3-compatible storage.
// Each account owns one backup object that every upload replaces. Without a
// configured bucket the tracker stays local-only and every operation reports
// ErrNotConfigured.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/microacademy/tracker/internal/config"
)

// ErrNotConfigured is returned when no backup bucket is configured.
var ErrNotConfigured = errors.New("backup storage not configured")

// Database is the slice of the local store a backup needs: a consistent
// point-in-time copy written to a fresh file.
type Database interface {
	BackupTo(ctx context.Context, destPath string) error
}

// objectStore matches the minio.Client methods the snapshotter calls.
// Tests substitute a fake; *minio.Client satisfies it directly.
type objectStore interface {
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
}

// Snapshotter stages database snapshots and pushes them to the bucket.
// The zero value is unconfigured and rejects every call.
type Snapshotter struct {
	store     objectStore
	bucket    string
	urlExpiry time.Duration
}

// New builds a Snapshotter from the backup configuration. An empty bucket
// yields an unconfigured instance rather than an error; backups being off
// is a normal state.
func New(cfg config.BackupStorageConfig) (*Snapshotter, error) {
	if cfg.Bucket == "" {
		return &Snapshotter{}, nil
	}

	useSSL := true
	if cfg.UseSSL != nil {
		useSSL = *cfg.UseSSL
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &Snapshotter{
		store:     client,
		bucket:    cfg.Bucket,
		urlExpiry: time.Duration(cfg.URLExpiry),
	}, nil
}

// Configured reports whether a backup bucket is set up.
func (s *Snapshotter) Configured() bool {
	return s.store != nil
}

// Backup writes a point-in-time copy of db into a temporary staging file and
// uploads it as the account's backup object. The staging copy is removed
// whether or not the upload succeeds.
func (s *Snapshotter) Backup(ctx context.Context, db Database, accountID string) error {
	if s.store == nil {
		return ErrNotConfigured
	}

	staging, err := os.MkdirTemp("", "tracker-backup-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	path := filepath.Join(staging, "tracker.db")
	if err := db.BackupTo(ctx, path); err != nil {
		return fmt.Errorf("stage database snapshot: %w", err)
	}

	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	if _, err := s.store.FPutObject(ctx, s.bucket, backupKey(accountID), path, opts); err != nil {
		return fmt.Errorf("upload backup: %w", err)
	}
	return nil
}

// DownloadURL returns a pre-signed GET URL for the account's backup object
// and the moment it expires.
func (s *Snapshotter) DownloadURL(ctx context.Context, accountID string) (string, time.Time, error) {
	if s.store == nil {
		return "", time.Time{}, ErrNotConfigured
	}

	link, err := s.store.PresignedGetObject(ctx, s.bucket, backupKey(accountID), s.urlExpiry, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign backup download: %w", err)
	}
	return link.String(), time.Now().Add(s.urlExpiry), nil
}

// backupKey is the account's single backup object; each upload replaces it.
func backupKey(accountID string) string {
	return accountID + "/backup/current.db"
}
