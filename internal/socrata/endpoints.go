package socrata

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/handiism/socrata-downloader/internal/model"
)

// DefaultBlobMimeType is used in blob URLs when the catalog gives no
// blobMimeType.
const DefaultBlobMimeType = "application/octet-stream"

// Endpoints holds the base URLs of one Socrata site.
type Endpoints struct {
	// APIBase is the root of the SODA API, e.g. "https://data.cdc.gov/api".
	APIBase string

	// DownloadBase is the root of blob downloads, e.g.
	// "https://data.cdc.gov/download".
	DownloadBase string
}

// NewEndpoints returns the endpoints of a domain such as "data.cdc.gov".
//
// A domain that already carries a scheme ("http://localhost:8080") is used
// as is, which lets tests point the client at a local server.
func NewEndpoints(domain string) Endpoints {
	base := strings.TrimRight(strings.TrimSpace(domain), "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return Endpoints{
		APIBase:      base + "/api",
		DownloadBase: base + "/download",
	}
}

// CatalogURL returns the URL of the metadata catalog.
func (e Endpoints) CatalogURL() string {
	return e.APIBase + "/views/metadata/v1"
}

// ViewURL returns the URL of the view details of an asset.
func (e Endpoints) ViewURL(asset model.Asset) string {
	return e.APIBase + "/views/" + url.PathEscape(asset.ID)
}

// ExportURL returns the URL the asset is downloaded from.
//
// Tables use the rows.csv export and blobs the download endpoint, so a
// table and a blob with the same id never share a URL. Unsupported assets
// have no export URL.
func (e Endpoints) ExportURL(asset model.Asset) (string, error) {
	id := url.PathEscape(asset.ID)

	switch asset.Kind {
	case model.KindTable:
		return e.APIBase + "/views/" + id + "/rows.csv", nil
	case model.KindBlob:
		mime := asset.BlobMimeType
		if mime == "" {
			mime = DefaultBlobMimeType
		}
		return e.DownloadBase + "/" + id + "/" + escapeMimeType(mime), nil
	default:
		return "", fmt.Errorf("asset %s: no export for kind %s", asset.ID, asset.Kind)
	}
}

// escapeMimeType escapes both halves of "type/subtype" but keeps the slash,
// which is how Socrata expects it in the path.
func escapeMimeType(mime string) string {
	major, minor, found := strings.Cut(mime, "/")
	if !found {
		return url.PathEscape(mime)
	}
	return url.PathEscape(major) + "/" + url.PathEscape(minor)
}
