package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ImageStore persists uploaded food images and returns a URL they can be
// fetched from.
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, fileName, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// maxObjectBase keeps generated URLs well inside food_items.image_url.
const maxObjectBase = 100

// uniqueName prefixes the sanitised file name with 16 random bytes.
func uniqueName(fileName string) string {
	randomBytes := make([]byte, 16)
	_, _ = rand.Read(randomBytes)

	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
	if base == "" || base == "." {
		base = "image"
	}
	if len(base) > maxObjectBase {
		base = base[len(base)-maxObjectBase:]
	}
	return hex.EncodeToString(randomBytes) + "-" + base
}

// GCSStore uploads to a Google Cloud Storage bucket with public object URLs.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a client. credentialsFile may be empty to use
// application default credentials.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("GCP_BUCKET_NAME not set")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (g *GCSStore) publicURL(object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object)
}

func (g *GCSStore) Upload(ctx context.Context, r io.Reader, fileName, contentType string) (string, error) {
	object := uniqueName(fileName)
	writer := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	if contentType == "" {
		contentType = "image/jpeg"
	}
	writer.ContentType = contentType

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return "", fmt.Errorf("GCS upload failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("GCS upload finalization failed: %w", err)
	}
	return g.publicURL(object), nil
}

// Delete removes an object previously returned by Upload. URLs that do not
// point into the bucket are ignored.
func (g *GCSStore) Delete(ctx context.Context, url string) error {
	prefix := g.publicURL("")
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	err := g.client.Bucket(g.bucket).Object(strings.TrimPrefix(url, prefix)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}

// LocalStore writes uploads to a directory served under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (l *LocalStore) Upload(_ context.Context, r io.Reader, fileName, _ string) (string, error) {
	name := uniqueName(fileName)
	f, err := os.Create(filepath.Join(l.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path.Join(l.URLPrefix, name), nil
}

func (l *LocalStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, l.URLPrefix+"/") {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, l.URLPrefix+"/"))
	err := os.Remove(filepath.Join(l.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
