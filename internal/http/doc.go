// Package http provides an HTTP client configured for Socrata API requests.
//
// The Client in this package handles:
//   - User-Agent and X-App-Token headers
//   - JSON/metadata fetches into memory
//   - Streaming file downloads with progress tracking
//   - Typed errors separating HTTP status, file system and transport failures
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	// Fetch the catalog
//	body, err := client.Get(ctx, "https://data.cdc.gov/api/views/metadata/v1")
//
//	// Stream an export to disk
//	n, err := client.DownloadFile(ctx, csvURL, "/data/abcd-1234.csv", nil)
//
// # Errors
//
// Failures are returned as:
//
//   - *StatusError when the server answered with a non-2xx status
//   - *FileError when the destination could not be created, written or closed
//   - any other error for transport failures (connect, timeout, body read)
//
// Use errors.As to tell them apart.
package http
