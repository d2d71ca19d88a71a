package storage

import (
	"errors"
	"fmt"

	"github.com/volcengine/ve-tos-golang-sdk/v2/tos"
)

// Sentinel errors for storage operations.
var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrBucketNotFound indicates the bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrAccessDenied indicates insufficient permissions.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrThrottled indicates the request was rate limited by the service.
	ErrThrottled = errors.New("request throttled")

	// ErrServiceUnavailable indicates the storage service is unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrObjectTooLarge indicates the response exceeds the configured
	// size limit.
	ErrObjectTooLarge = errors.New("object too large")

	// ErrBucketNotAllowed indicates the bucket is outside the
	// configured allowlist.
	ErrBucketNotAllowed = errors.New("bucket not allowed")
)

// StorageError wraps TOS errors with operation context.
type StorageError struct {
	// Op is the operation that failed (e.g. "ListObjects", "Process").
	Op string

	// Bucket is the bucket name, if applicable.
	Bucket string

	// Key is the object key, if applicable.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("tos %s: %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("tos %s: %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("tos %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates an object was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBucketNotFound returns true if the error indicates the bucket does not exist.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied returns true if the error indicates insufficient permissions.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidCredentials returns true if the error indicates authentication failed.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsObjectTooLarge returns true if the error indicates the size guard tripped.
func IsObjectTooLarge(err error) bool {
	return errors.Is(err, ErrObjectTooLarge)
}

// IsBucketNotAllowed returns true if the error indicates an allowlist rejection.
func IsBucketNotAllowed(err error) bool {
	return errors.Is(err, ErrBucketNotAllowed)
}

// wrapError converts TOS SDK errors into StorageError with the
// appropriate sentinel.
func wrapError(op, bucket, key string, err error) error {
	wrapped := &StorageError{Op: op, Bucket: bucket, Key: key, Err: err}

	var serverErr *tos.TosServerError
	if errors.As(err, &serverErr) {
		switch serverErr.Code {
		case "NoSuchKey", "NotFound":
			wrapped.Err = ErrNotFound
			return wrapped
		case "NoSuchBucket":
			wrapped.Err = ErrBucketNotFound
			return wrapped
		case "AccessDenied", "Forbidden":
			wrapped.Err = ErrAccessDenied
			return wrapped
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "InvalidSecurityToken", "ExpiredToken":
			wrapped.Err = ErrInvalidCredentials
			return wrapped
		case "TooManyRequests", "ExceedAccountQPSLimit", "ExceedBucketQPSLimit":
			wrapped.Err = ErrThrottled
			return wrapped
		}

		// Fall back to the HTTP status when the code is unmapped.
		switch {
		case serverErr.StatusCode == 404:
			wrapped.Err = ErrNotFound
		case serverErr.StatusCode == 403:
			wrapped.Err = ErrAccessDenied
		case serverErr.StatusCode == 401:
			wrapped.Err = ErrInvalidCredentials
		case serverErr.StatusCode == 429:
			wrapped.Err = ErrThrottled
		case serverErr.StatusCode >= 500:
			wrapped.Err = ErrServiceUnavailable
		}
		return wrapped
	}

	return wrapped
}
