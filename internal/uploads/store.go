package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/acestone/renovation-leads/pkg/logging"
)

// PhotoStore persists uploaded job-site photos and returns an opaque
// reference string that can be attached to a lead.
type PhotoStore interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store stores photos in an S3 bucket under leads/photos/.
type S3Store struct {
	client S3API
	bucket string
	logger *logging.Logger
}

// NewS3Store creates an S3-backed photo store.
func NewS3Store(client S3API, bucket string, logger *logging.Logger) *S3Store {
	if client == nil {
		panic("uploads: s3 client required")
	}
	if bucket == "" {
		panic("uploads: bucket required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Store{client: client, bucket: bucket, logger: logger}
}

var _ PhotoStore = (*S3Store)(nil)

// Put uploads the photo and returns its object key as the reference.
func (s *S3Store) Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := photoKey(filename, time.Now().UTC())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploads: s3 put %s: %w", key, err)
	}

	s.logger.Info("photo uploaded", "key", key, "bucket", s.bucket)
	return key, nil
}

// photoKey builds a collision-free object key, keeping the original file
// extension for content-type sniffing downstream.
func photoKey(filename string, now time.Time) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("leads/photos/%d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), ext)
}

// MemoryStore holds uploads in memory. Development backend when no bucket is
// configured.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory photo store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

var _ PhotoStore = (*MemoryStore)(nil)

// Put reads the photo into memory and returns its reference.
func (s *MemoryStore) Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("uploads: read body: %w", err)
	}
	key := photoKey(filename, time.Now().UTC())

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return key, nil
}

// Get returns a stored photo by reference. Test helper.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
