// Package storage wraps the VolcEngine TOS SDK for the operations the
// tool surface needs: bucket and object listing, object fetch, and
// server-side processing via x-tos-process directives.
//
// All response bodies are accumulated in memory behind a size guard;
// nothing here implements storage, caching, or retries of its own.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/volcengine/ve-tos-golang-sdk/v2/tos"

	"github.com/chenat9/mcp-server/pkg/directive"
)

// fetchChunkSize is the read size for accumulating response bodies.
const fetchChunkSize = 64 * 1024

// Service executes TOS requests on behalf of tool handlers.
//
// A Service is cheap to construct; in web deploy mode one is built per
// request around the caller's short-lived credentials.
type Service struct {
	client        *tos.ClientV2
	maxObjectSize int64
	allowed       map[string]struct{}
}

// New creates a Service from the given configuration.
func New(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}

	cred := tos.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey)
	if cfg.SecurityToken != "" {
		cred.WithSecurityToken(cfg.SecurityToken)
	}

	// Retries are deliberately off; the tool caller owns retry policy.
	// CRC verification is off because processed responses do not carry
	// the source object's checksum.
	client, err := tos.NewClientV2(cfg.Endpoint,
		tos.WithRegion(cfg.Region),
		tos.WithCredentials(cred),
		tos.WithMaxRetryCount(0),
		tos.WithEnableCRC(false),
	)
	if err != nil {
		return nil, &StorageError{Op: "New", Err: err}
	}

	maxSize := cfg.MaxObjectSize
	if maxSize == 0 {
		maxSize = DefaultMaxObjectSize
	}

	var allowed map[string]struct{}
	if len(cfg.Buckets) > 0 {
		allowed = make(map[string]struct{}, len(cfg.Buckets))
		for _, b := range cfg.Buckets {
			allowed[b] = struct{}{}
		}
	}

	return &Service{
		client:        client,
		maxObjectSize: maxSize,
		allowed:       allowed,
	}, nil
}

// Close releases resources held by the service.
// The TOS client needs no explicit cleanup; this keeps the familiar
// provider lifecycle for callers.
func (s *Service) Close() error {
	return nil
}

// Bucket summarizes one bucket from a ListBuckets call.
type Bucket struct {
	Name             string `json:"name"`
	Location         string `json:"location,omitempty"`
	CreationDate     string `json:"creation_date,omitempty"`
	ExtranetEndpoint string `json:"extranet_endpoint,omitempty"`
	IntranetEndpoint string `json:"intranet_endpoint,omitempty"`
}

// ListBuckets returns the account's buckets, filtered by the configured
// allowlist when one is set.
func (s *Service) ListBuckets(ctx context.Context) ([]Bucket, error) {
	out, err := s.client.ListBuckets(ctx, &tos.ListBucketsInput{})
	if err != nil {
		return nil, wrapError("ListBuckets", "", "", err)
	}

	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		if s.allowed != nil {
			if _, ok := s.allowed[b.Name]; !ok {
				continue
			}
		}
		buckets = append(buckets, Bucket{
			Name:             b.Name,
			Location:         b.Location,
			CreationDate:     b.CreationDate,
			ExtranetEndpoint: b.ExtranetEndpoint,
			IntranetEndpoint: b.IntranetEndpoint,
		})
	}
	return buckets, nil
}

// ListOptions configures a ListObjects call.
type ListOptions struct {
	// Bucket is the bucket to list. Required.
	Bucket string

	// Prefix filters results to keys starting with this value.
	Prefix string

	// StartAfter begins listing after this key.
	StartAfter string

	// ContinuationToken resumes a previous truncated listing.
	ContinuationToken string

	// MaxKeys limits the page size. Zero uses the service default.
	MaxKeys int

	// Pattern is an optional glob applied client-side to returned
	// keys (doublestar syntax, e.g. "media/**/*.png").
	Pattern string
}

// Object summarizes one object from a listing.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified,omitempty"`
	StorageClass string    `json:"storage_class,omitempty"`
}

// ListResult is one page of a bucket listing.
type ListResult struct {
	Objects               []Object `json:"objects"`
	Prefix                string   `json:"prefix,omitempty"`
	KeyCount              int      `json:"key_count"`
	IsTruncated           bool     `json:"is_truncated"`
	NextContinuationToken string   `json:"next_continuation_token,omitempty"`
}

// ListObjects returns a page of objects in a bucket.
//
// The glob pattern, when present, is applied after the service call:
// the token-based pagination contract stays intact and only the
// returned page is narrowed.
func (s *Service) ListObjects(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if err := s.checkBucket("ListObjects", opts.Bucket); err != nil {
		return nil, err
	}
	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, &StorageError{
			Op:     "ListObjects",
			Bucket: opts.Bucket,
			Err:    fmt.Errorf("invalid glob pattern: %s", opts.Pattern),
		}
	}

	out, err := s.client.ListObjectsType2(ctx, &tos.ListObjectsType2Input{
		Bucket:            opts.Bucket,
		Prefix:            opts.Prefix,
		StartAfter:        opts.StartAfter,
		ContinuationToken: opts.ContinuationToken,
		MaxKeys:           opts.MaxKeys,
		// The SDK transparently follows NextContinuationToken until it
		// fills MaxKeys. Callers drive pagination themselves, so each
		// call must map to exactly one request.
		ListOnlyOnce: true,
	})
	if err != nil {
		return nil, wrapError("ListObjects", opts.Bucket, "", err)
	}

	objects := make([]Object, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if opts.Pattern != "" {
			if ok, _ := doublestar.Match(opts.Pattern, obj.Key); !ok {
				continue
			}
		}
		objects = append(objects, Object{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         cleanETag(obj.ETag),
			LastModified: obj.LastModified,
			StorageClass: string(obj.StorageClass),
		})
	}

	return &ListResult{
		Objects:               objects,
		Prefix:                out.Prefix,
		KeyCount:              len(objects),
		IsTruncated:           out.IsTruncated,
		NextContinuationToken: out.NextContinuationToken,
	}, nil
}

// GetObject fetches an object body.
//
// Keys with a known text extension come back as plain text; everything
// else is base64-encoded.
func (s *Service) GetObject(ctx context.Context, bucket, key string) (*Content, error) {
	if err := s.checkBucket("GetObject", bucket); err != nil {
		return nil, err
	}

	body, contentType, err := s.fetch(ctx, "GetObject", &tos.GetObjectV2Input{
		Bucket: bucket,
		Key:    key,
	})
	if err != nil {
		return nil, err
	}

	content := &Content{
		ContentType: contentType,
		Size:        int64(len(body)),
	}
	if isTextKey(key) {
		content.Kind = KindText
		content.Data = string(body)
	} else {
		content.Kind = KindBinary
		content.Data = base64.StdEncoding.EncodeToString(body)
	}
	return content, nil
}

// ProcessInput describes one server-side processing request.
type ProcessInput struct {
	// Bucket and Key locate the source object.
	Bucket string
	Key    string

	// Directive is the encoded x-tos-process value.
	Directive string

	// SaveObject and SaveBucket persist the result instead of
	// returning it inline. SaveBucket defaults to the source bucket
	// when only SaveObject is given. Plain names; encoding happens
	// here.
	SaveObject string
	SaveBucket string

	// TextResult marks directives whose response is a JSON document
	// (info operations) rather than media bytes.
	TextResult bool
}

// Process runs an x-tos-process directive against an object.
//
// When a save-as target is set the service stores the result and the
// returned Content carries the JSON receipt; otherwise the processed
// bytes come back base64-encoded (or as JSON text for info directives).
func (s *Service) Process(ctx context.Context, in ProcessInput) (*Content, error) {
	if err := s.checkBucket("Process", in.Bucket); err != nil {
		return nil, err
	}
	if in.Directive == "" {
		return nil, &StorageError{
			Op:     "Process",
			Bucket: in.Bucket,
			Key:    in.Key,
			Err:    errors.New("empty process directive"),
		}
	}

	input := &tos.GetObjectV2Input{
		Bucket:  in.Bucket,
		Key:     in.Key,
		Process: in.Directive,
	}
	if in.SaveObject != "" {
		input.SaveObject = directive.EncodeSaveTarget(in.SaveObject)
		if in.SaveBucket != "" {
			input.SaveBucket = directive.EncodeSaveTarget(in.SaveBucket)
		}
	}

	body, contentType, err := s.fetch(ctx, "Process", input)
	if err != nil {
		return nil, err
	}

	content := &Content{
		ContentType: contentType,
		Size:        int64(len(body)),
	}
	switch {
	case in.SaveObject != "" || in.TextResult:
		content.Kind = KindJSON
		content.Data = string(body)
	default:
		content.Kind = KindBinary
		content.Data = base64.StdEncoding.EncodeToString(body)
	}
	return content, nil
}

// fetch issues a GetObject request and accumulates the body in fixed
// chunks, enforcing the size guard both on the declared content length
// and on the actual bytes read (chunked responses declare nothing).
func (s *Service) fetch(ctx context.Context, op string, input *tos.GetObjectV2Input) ([]byte, string, error) {
	out, err := s.client.GetObjectV2(ctx, input)
	if err != nil {
		return nil, "", wrapError(op, input.Bucket, input.Key, err)
	}
	defer func() { _ = out.Content.Close() }()

	if out.ContentLength > s.maxObjectSize {
		return nil, "", s.tooLarge(op, input.Bucket, input.Key)
	}

	buf := make([]byte, fetchChunkSize)
	var body []byte
	for {
		n, rerr := out.Content.Read(buf)
		if n > 0 {
			if int64(len(body))+int64(n) > s.maxObjectSize {
				return nil, "", s.tooLarge(op, input.Bucket, input.Key)
			}
			body = append(body, buf[:n]...)
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return nil, "", wrapError(op, input.Bucket, input.Key, rerr)
		}
	}

	return body, out.ContentType, nil
}

// checkBucket enforces the configured allowlist.
func (s *Service) checkBucket(op, bucket string) error {
	if bucket == "" {
		return &StorageError{Op: op, Err: errors.New("bucket is required")}
	}
	if s.allowed == nil {
		return nil
	}
	if _, ok := s.allowed[bucket]; !ok {
		return &StorageError{Op: op, Bucket: bucket, Err: ErrBucketNotAllowed}
	}
	return nil
}

// tooLarge builds the size-guard error for one request.
func (s *Service) tooLarge(op, bucket, key string) error {
	return &StorageError{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    fmt.Errorf("%w: response exceeds %d bytes", ErrObjectTooLarge, s.maxObjectSize),
	}
}

// cleanETag removes surrounding quotes from an ETag value.
func cleanETag(etag string) string {
	if len(etag) >= 2 && etag[0] == '"' && etag[len(etag)-1] == '"' {
		return etag[1 : len(etag)-1]
	}
	return etag
}
