// Package client talks to the NatorVoice HTTP API.
//
// HTTPClient implements every route the server exposes. Non-2xx responses
// carry the uniform {"error": "..."} envelope and are returned as *APIError,
// which matches the sentinel errors of this package through errors.Is:
//
//	if errors.Is(err, client.ErrQuotaExceeded) { ... }
//
// Transport failures are reported as ErrUnavailable.
package client
