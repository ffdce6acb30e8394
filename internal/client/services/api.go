// Package services contains the typed TraceTrail API calls the stores and
// the CLI use. Each method is a single request over API; local precondition
// checks happen here so that invalid input never reaches the network.
package services

import (
	"context"
	"net/url"
)

// API is the part of client.HTTPClient the services need.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
	GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error)
}
