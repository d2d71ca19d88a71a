package storage

import (
	"errors"
	"fmt"
)

// DefaultMaxObjectSize caps response bodies at 16 MiB unless configured
// otherwise. Tool results are carried inline in MCP responses, so the
// guard protects the calling agent's context as much as this process.
const DefaultMaxObjectSize = 16 << 20

// Config holds the settings needed to build a Service.
type Config struct {
	// Endpoint is the TOS service endpoint
	// (e.g. "https://tos-cn-beijing.volces.com").
	Endpoint string

	// Region is the TOS region (e.g. "cn-beijing").
	Region string

	// AccessKey and SecretKey authenticate requests. SecurityToken is
	// set for short-lived STS credentials and empty for static keys.
	AccessKey     string
	SecretKey     string
	SecurityToken string

	// MaxObjectSize limits response body sizes in bytes. Zero applies
	// DefaultMaxObjectSize.
	MaxObjectSize int64

	// Buckets restricts operations to the named buckets when
	// non-empty. Empty means all buckets are allowed.
	Buckets []string
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, fmt.Errorf("endpoint is required"))
	}
	if c.Region == "" {
		errs = append(errs, fmt.Errorf("region is required"))
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		errs = append(errs, fmt.Errorf("access key and secret key are required"))
	}
	if c.MaxObjectSize < 0 {
		errs = append(errs, fmt.Errorf("max object size must be non-negative, got %d", c.MaxObjectSize))
	}
	return errors.Join(errs...)
}
