package snapshot

import (
	"context"
	"errors"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/microacademy/tracker/internal/config"
)

type uploadCall struct {
	bucket      string
	object      string
	stagedBytes []byte
	contentType string
}

// fakeObjectStore records uploads, reading the staged file while it still
// exists so tests can check both content and cleanup.
type fakeObjectStore struct {
	uploads    []uploadCall
	putErr     error
	lastStaged string
	presignErr error
}

func (f *fakeObjectStore) FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.lastStaged = filePath
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.uploads = append(f.uploads, uploadCall{
		bucket:      bucket,
		object:      object,
		stagedBytes: data,
		contentType: opts.ContentType,
	})
	return minio.UploadInfo{Bucket: bucket, Key: object}, nil
}

func (f *fakeObjectStore) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return url.Parse("https://backups.invalid/" + bucket + "/" + object + "?sig=abc")
}

// fakeDatabase stands in for the real VACUUM INTO copy.
type fakeDatabase struct {
	content []byte
	err     error
}

func (d *fakeDatabase) BackupTo(ctx context.Context, destPath string) error {
	if d.err != nil {
		return d.err
	}
	return os.WriteFile(destPath, d.content, 0o600)
}

func newTestSnapshotter(store objectStore) *Snapshotter {
	return &Snapshotter{store: store, bucket: "tracker-backups", urlExpiry: time.Hour}
}

func TestNew_EmptyBucketIsUnconfigured(t *testing.T) {
	ctx := context.Background()

	snap, err := New(config.BackupStorageConfig{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if snap.Configured() {
		t.Error("Configured() = true without a bucket")
	}
	if err := snap.Backup(ctx, &fakeDatabase{}, "acct"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Backup() error = %v, want ErrNotConfigured", err)
	}
	if _, _, err := snap.DownloadURL(ctx, "acct"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("DownloadURL() error = %v, want ErrNotConfigured", err)
	}
}

func TestBackup_StagesAndUploads(t *testing.T) {
	ctx := context.Background()
	store := &fakeObjectStore{}
	snap := newTestSnapshotter(store)
	db := &fakeDatabase{content: []byte("sqlite payload")}

	if err := snap.Backup(ctx, db, "acct-1"); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	if len(store.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(store.uploads))
	}
	got := store.uploads[0]
	if got.bucket != "tracker-backups" || got.object != "acct-1/backup/current.db" {
		t.Errorf("uploaded %s/%s, want tracker-backups/acct-1/backup/current.db", got.bucket, got.object)
	}
	if string(got.stagedBytes) != "sqlite payload" {
		t.Errorf("staged content = %q, want the database copy", got.stagedBytes)
	}
	if got.contentType != "application/octet-stream" {
		t.Errorf("content type = %q", got.contentType)
	}

	// The staging copy does not outlive the call.
	if _, err := os.Stat(store.lastStaged); !os.IsNotExist(err) {
		t.Errorf("staging file %s still exists after Backup()", store.lastStaged)
	}
}

func TestBackup_StageFailure(t *testing.T) {
	ctx := context.Background()
	store := &fakeObjectStore{}
	snap := newTestSnapshotter(store)
	db := &fakeDatabase{err: errors.New("database is locked")}

	if err := snap.Backup(ctx, db, "acct-1"); err == nil {
		t.Fatal("Backup() = nil error, want staging failure")
	}
	if len(store.uploads) != 0 {
		t.Errorf("uploads = %d, want none after a failed staging copy", len(store.uploads))
	}
}

func TestBackup_UploadFailureCleansStaging(t *testing.T) {
	ctx := context.Background()
	store := &fakeObjectStore{putErr: errors.New("access denied")}
	snap := newTestSnapshotter(store)

	if err := snap.Backup(ctx, &fakeDatabase{content: []byte("x")}, "acct-1"); err == nil {
		t.Fatal("Backup() = nil error, want wrapped upload failure")
	}
	if _, err := os.Stat(store.lastStaged); !os.IsNotExist(err) {
		t.Errorf("staging file %s still exists after failed upload", store.lastStaged)
	}
}

func TestDownloadURL(t *testing.T) {
	ctx := context.Background()
	snap := newTestSnapshotter(&fakeObjectStore{})

	link, expiry, err := snap.DownloadURL(ctx, "acct-1")
	if err != nil {
		t.Fatalf("DownloadURL() error = %v", err)
	}
	if link == "" {
		t.Error("DownloadURL() returned empty URL")
	}
	if time.Until(expiry) <= 0 {
		t.Error("DownloadURL() expiry is not in the future")
	}
}

func TestDownloadURL_PresignFailure(t *testing.T) {
	ctx := context.Background()
	snap := newTestSnapshotter(&fakeObjectStore{presignErr: errors.New("no such key")})

	if _, _, err := snap.DownloadURL(ctx, "acct-1"); err == nil {
		t.Error("DownloadURL() = nil error, want presign failure")
	}
}
