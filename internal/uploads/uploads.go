// Package uploads hands out presigned S3 PUT URLs for claim documents.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	ErrNotConfigured    = errors.New("uploads not configured")
	ErrUnsupportedType  = errors.New("only PDF, JPEG and PNG files are allowed")
	ErrFilenameRequired = errors.New("filename required")
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
	allowedContentTypes = map[string][]string{
		"application/pdf": {".pdf"},
		"image/jpeg":      {".jpg", ".jpeg"},
		"image/png":       {".png"},
	}
)

// Presigner defines the interface for presigning S3 requests.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Upload is what the browser needs to PUT a document straight to the bucket.
type Upload struct {
	URL       string            `json:"url"`
	Key       string            `json:"key"`
	ExpiresIn int               `json:"expires_in"`
	Headers   map[string]string `json:"headers"`
}

type Service struct {
	presigner Presigner
	bucket    string
	ttl       time.Duration
	newID     func() string
}

// NewService returns an upload service. An empty bucket makes every call fail with ErrNotConfigured.
func NewService(p Presigner, bucket string, ttl time.Duration, newID func() string) *Service {
	return &Service{presigner: p, bucket: bucket, ttl: ttl, newID: newID}
}

// PresignPut validates the file and returns a presigned PUT for claims/<id>/<name>.
func (s *Service) PresignPut(ctx context.Context, claimRef, filename, contentType string) (*Upload, error) {
	if s == nil || s.presigner == nil || s.bucket == "" {
		return nil, ErrNotConfigured
	}
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, ErrFilenameRequired
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if err := checkType(name, contentType); err != nil {
		return nil, err
	}

	key := BuildKey(s.newID(), name)
	meta := map[string]string{}
	if claimRef != "" {
		meta["claim_ref"] = claimRef
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Metadata:    meta,
	}
	req, err := s.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) { o.Expires = s.ttl })
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}

	headers := map[string]string{"Content-Type": contentType}
	if claimRef != "" {
		headers["x-amz-meta-claim_ref"] = claimRef
	}
	return &Upload{
		URL:       req.URL,
		Key:       key,
		ExpiresIn: int(s.ttl.Seconds()),
		Headers:   headers,
	}, nil
}

// BuildKey constructs the object key for an uploaded claim document.
func BuildKey(id, filename string) string {
	return fmt.Sprintf("claims/%s/%s", id, filename)
}

// SanitizeFilename drops any path and replaces characters outside [a-zA-Z0-9._-].
func SanitizeFilename(fn string) string {
	fn = strings.TrimSpace(strings.ReplaceAll(fn, "\\", "/"))
	fn = filepath.Base(fn)
	if fn == "." || fn == "/" {
		return ""
	}
	fn = unsafeFilenameChars.ReplaceAllString(fn, "_")
	fn = strings.Trim(fn, "._")
	if len(fn) > 120 {
		ext := filepath.Ext(fn)
		fn = fn[:120-len(ext)] + ext
	}
	return fn
}

func checkType(filename, contentType string) error {
	exts, ok := allowedContentTypes[contentType]
	if !ok {
		return ErrUnsupportedType
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if e == ext {
			return nil
		}
	}
	return ErrUnsupportedType
}
