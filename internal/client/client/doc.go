// Package client is the single point of outbound requests to the TraceTrail
// API.
//
// # Overview
//
// HTTPClient sends JSON requests relative to a base URL, attaches the bearer
// token supplied by a TokenSource, paces requests with a token-bucket limiter
// and records every call in a MetricsCollector.
//
// # Error Handling
//
// Every failure is returned as *Error carrying a Kind (network, validation,
// unauthorized, ...) and, when the backend supplied one, a human-readable
// Detail. Callers never look at response bodies: use Message to get the text
// to show a user, and errors.Is with ErrUnauthorized, ErrUnavailable,
// ErrNotFound or ErrValidation to branch.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context; cancelling it aborts the request and the limiter wait.
package client
