package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/workcal/workcal/internal/config"
	"github.com/workcal/workcal/internal/model"
)

// ErrNotConfigured is returned by a nil Archive.
var ErrNotConfigured = errors.New("archive storage not configured")

const exportContentType = "application/gzip"

// Archive writes log exports to an S3-compatible bucket.
type Archive struct {
	client *s3.Client
	bucket string
}

// NewArchive builds an S3-compatible client for cfg.
// Returns nil if cfg is nil or endpoint/bucket are empty.
func NewArchive(cfg *config.ArchiveConfig) *Archive {
	if !cfg.Enabled() {
		return nil
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	client := s3.NewFromConfig(aws.Config{
		Region:      region,
		Credentials: aws.NewCredentialsCache(creds),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	return &Archive{client: client, bucket: cfg.Bucket}
}

// EnsureBucket creates the bucket if HeadBucket cannot see it.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if _, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)}); err == nil {
		return nil
	}
	_, err := a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
				return nil
			}
		}
		return err
	}
	return nil
}

// ExportPrefix is the key prefix under which a user's exports live.
func ExportPrefix(userID uuid.UUID) string {
	return path.Join("exports", userID.String()) + "/"
}

// ExportKey returns the object key for a new export, e.g. exports/<user>/2024/03/10/<id>.json.gz.
func ExportKey(userID uuid.UUID, exportID uuid.UUID, now time.Time) string {
	return path.Join("exports", userID.String(), now.UTC().Format("2006/01/02"), exportID.String()+".json.gz")
}

// Export uploads entries as one gzipped JSON object and returns its key.
func (a *Archive) Export(ctx context.Context, userID uuid.UUID, entries []model.LogEntry, now time.Time) (string, error) {
	if a == nil {
		return "", ErrNotConfigured
	}
	data, err := EncodeEntries(entries)
	if err != nil {
		return "", err
	}
	key := ExportKey(userID, uuid.New(), now)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(exportContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// ObjectInfo describes one stored export.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ListExports lists the exports of userID.
func (a *Archive) ListExports(ctx context.Context, userID uuid.UUID) ([]ObjectInfo, error) {
	if a == nil {
		return nil, ErrNotConfigured
	}
	return listObjects(ctx, a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(ExportPrefix(userID)),
	})
}

// listObjects walks every page of a listing; one page holds at most 1000 keys.
func listObjects(ctx context.Context, client s3.ListObjectsV2APIClient, in *s3.ListObjectsV2Input) ([]ObjectInfo, error) {
	result := []ObjectInfo{}
	pages := s3.NewListObjectsV2Paginator(client, in)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", aws.ToString(in.Prefix), err)
		}
		for _, o := range page.Contents {
			info := ObjectInfo{Key: aws.ToString(o.Key), Size: aws.ToInt64(o.Size)}
			if o.LastModified != nil {
				info.LastModified = *o.LastModified
			}
			result = append(result, info)
		}
	}
	return result, nil
}

// GetExport downloads and decodes one export by key.
func (a *Archive) GetExport(ctx context.Context, key string) ([]model.LogEntry, error) {
	if a == nil {
		return nil, ErrNotConfigured
	}
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return DecodeEntries(raw)
}

// EncodeEntries gzips the JSON encoding of entries.
func EncodeEntries(entries []model.LogEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(entries); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeEntries reverses EncodeEntries.
func DecodeEntries(raw []byte) ([]model.LogEntry, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()
	var entries []model.LogEntry
	if err := json.NewDecoder(zr).Decode(&entries); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return entries, nil
}
