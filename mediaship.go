// Package mediaship provides resumable media uploads to the render service.
//
// Example usage:
//
//	cfg := mediaship.DefaultConfig()
//	cfg.DeveloperKey = "your-developer-key"
//	client, err := mediaship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.UploadFile(context.Background(), "/path/to/video.mp4")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.StatusCode, res.StatusReason)
//
// The full API lives in github.com/bft-labs/mediaship/pkg/mediaship.
package mediaship

import (
	client "github.com/bft-labs/mediaship/pkg/mediaship"
)

// Config holds the client configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = client.Config

// Client uploads files to the render service.
type Client = client.Client

// Option configures optional behavior of a Client.
type Option = client.Option

// UploadResult is the service's answer to a range upload.
type UploadResult = client.UploadResult

// Progress is reported after every block sent.
type Progress = client.Progress

// New creates a Client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	return client.New(cfg, opts...)
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set DeveloperKey before uploading.
func DefaultConfig() Config {
	return client.DefaultConfig()
}

// WithLogger, WithHTTPClient and WithProgress re-export the client options.
var (
	WithLogger     = client.WithLogger
	WithHTTPClient = client.WithHTTPClient
	WithProgress   = client.WithProgress
)

// DefaultEndpoint is the public render service.
const DefaultEndpoint = client.DefaultEndpoint
