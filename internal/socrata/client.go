package socrata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sochttp "github.com/handiism/socrata-downloader/internal/http"
	"github.com/handiism/socrata-downloader/internal/model"
	"github.com/handiism/socrata-downloader/internal/socrata/dto"
)

// MetadataFetchError is returned by FetchCatalog when the catalog cannot be
// retrieved or parsed. Without a catalog there is nothing to download, so
// callers treat it as fatal for the run.
type MetadataFetchError struct {
	URL string

	// StatusCode is the HTTP status of a non-2xx response, 0 otherwise.
	StatusCode int

	Err error
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("fetch catalog %s: %v", e.URL, e.Err)
}

func (e *MetadataFetchError) Unwrap() error { return e.Err }

// DroppedEntry describes a catalog element that could not become an asset.
type DroppedEntry struct {
	// Index is the position of the element in the catalog array.
	Index int

	// Reason says why it was dropped.
	Reason string
}

// Catalog is the parsed metadata of a domain.
type Catalog struct {
	// Assets holds one classified asset per usable entry, in catalog order.
	Assets []model.Asset

	// Dropped lists the entries that were not objects or had no id.
	Dropped []DroppedEntry

	// Raw is the response body as received.
	Raw []byte
}

// Getter fetches a URL into memory. *http.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client fetches the catalog of one Socrata domain.
type Client struct {
	endpoints Endpoints
	getter    Getter
}

// NewClient creates a Client for the given endpoints.
func NewClient(endpoints Endpoints, getter Getter) *Client {
	return &Client{
		endpoints: endpoints,
		getter:    getter,
	}
}

// Endpoints returns the endpoints the client was created with.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// FetchCatalog issues one request to the metadata endpoint and parses the
// response into classified assets.
//
// Every failure is returned as a *MetadataFetchError. There is no retry.
func (c *Client) FetchCatalog(ctx context.Context) (*Catalog, error) {
	catalogURL := c.endpoints.CatalogURL()

	body, err := c.getter.Get(ctx, catalogURL)
	if err != nil {
		fetchErr := &MetadataFetchError{URL: catalogURL, Err: err}
		var statusErr *sochttp.StatusError
		if errors.As(err, &statusErr) {
			fetchErr.StatusCode = statusErr.StatusCode
		}
		return nil, fetchErr
	}

	catalog, err := ParseCatalog(body)
	if err != nil {
		return nil, &MetadataFetchError{URL: catalogURL, Err: err}
	}

	return catalog, nil
}

// ParseCatalog parses a catalog body, which must be a JSON array.
//
// Elements that are not objects or have an empty id are skipped and
// reported in Catalog.Dropped; they do not fail the parse.
func ParseCatalog(body []byte) (*Catalog, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("catalog is not a JSON array: %w", err)
	}
	if entries == nil {
		return nil, errors.New("catalog is null")
	}

	catalog := &Catalog{
		Assets: make([]model.Asset, 0, len(entries)),
		Raw:    body,
	}

	for i, raw := range entries {
		var view dto.JSONView
		if err := json.Unmarshal(raw, &view); err != nil {
			catalog.Dropped = append(catalog.Dropped, DroppedEntry{Index: i, Reason: "entry is not an object"})
			continue
		}

		asset, err := view.ToAsset(Classify(view.AssetType))
		if err != nil {
			catalog.Dropped = append(catalog.Dropped, DroppedEntry{Index: i, Reason: "entry has no id"})
			continue
		}

		catalog.Assets = append(catalog.Assets, asset)
	}

	return catalog, nil
}
