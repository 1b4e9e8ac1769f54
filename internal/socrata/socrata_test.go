package socrata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sochttp "github.com/handiism/socrata-downloader/internal/http"
	"github.com/handiism/socrata-downloader/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		hint string
		want model.AssetKind
	}{
		{"dataset", model.KindTable},
		{"Dataset ", model.KindTable},
		{"table", model.KindTable},
		{"file", model.KindBlob},
		{"blob", model.KindBlob},
		{"BLOBBY", model.KindBlob},
		{"chart", model.KindUnsupported},
		{"map", model.KindUnsupported},
		{"href", model.KindUnsupported},
		{"", model.KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.hint))
		})
	}
}

func TestNewEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		api      string
		download string
	}{
		{"bare domain", "data.cdc.gov", "https://data.cdc.gov/api", "https://data.cdc.gov/download"},
		{"with scheme", "http://127.0.0.1:8080/", "http://127.0.0.1:8080/api", "http://127.0.0.1:8080/download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEndpoints(tt.domain)
			assert.Equal(t, tt.api, e.APIBase)
			assert.Equal(t, tt.download, e.DownloadBase)
		})
	}

	assert.Equal(t, "https://data.cdc.gov/api/views/metadata/v1", NewEndpoints("data.cdc.gov").CatalogURL())
}

func TestEndpoints_ExportURL(t *testing.T) {
	e := NewEndpoints("data.cdc.gov")

	table, err := e.ExportURL(model.Asset{ID: "abcd-1234", Kind: model.KindTable})
	require.NoError(t, err)
	assert.Equal(t, "https://data.cdc.gov/api/views/abcd-1234/rows.csv", table)

	blob, err := e.ExportURL(model.Asset{ID: "abcd-1234", Kind: model.KindBlob, BlobMimeType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "https://data.cdc.gov/download/abcd-1234/application/pdf", blob)

	assert.NotEqual(t, table, blob)

	fallback, err := e.ExportURL(model.Asset{ID: "abcd-1234", Kind: model.KindBlob})
	require.NoError(t, err)
	assert.Equal(t, "https://data.cdc.gov/download/abcd-1234/application/octet-stream", fallback)

	_, err = e.ExportURL(model.Asset{ID: "abcd-1234", Kind: model.KindUnsupported})
	assert.Error(t, err)
}

func TestEndpoints_ExportURLEscapesID(t *testing.T) {
	u, err := NewEndpoints("data.cdc.gov").ExportURL(model.Asset{ID: "a b/c", Kind: model.KindTable})
	require.NoError(t, err)
	assert.Equal(t, "https://data.cdc.gov/api/views/a%20b%2Fc/rows.csv", u)
}

func TestEndpoints_ViewURL(t *testing.T) {
	e := NewEndpoints("data.cdc.gov")
	assert.Equal(t, "https://data.cdc.gov/api/views/abcd-1234", e.ViewURL(model.Asset{ID: "abcd-1234", Kind: model.KindBlob}))
	assert.Equal(t, "https://data.cdc.gov/api/views/a%20b%2Fc", e.ViewURL(model.Asset{ID: "a b/c"}))
}

func TestParseCatalog(t *testing.T) {
	body := []byte(`[
		{"id": "aaaa-0001", "name": "Weekly Deaths", "assetType": "dataset"},
		{"id": "bbbb-0002", "name": "Guide", "assetType": "file", "blobMimeType": "application/pdf", "blobFilename": "guide.pdf"},
		{"id": "cccc-0003", "name": "Chart", "assetType": "chart", "blobFilename": "ignored.bin"},
		{"name": "No id", "assetType": "dataset"},
		"not an object",
		null
	]`)

	catalog, err := ParseCatalog(body)
	require.NoError(t, err)
	require.Len(t, catalog.Assets, 3)

	assert.Equal(t, "aaaa-0001", catalog.Assets[0].ID)
	assert.Equal(t, model.KindTable, catalog.Assets[0].Kind)

	assert.Equal(t, model.KindBlob, catalog.Assets[1].Kind)
	assert.Equal(t, "application/pdf", catalog.Assets[1].BlobMimeType)
	assert.Equal(t, "guide.pdf", catalog.Assets[1].BlobFilename)

	assert.Equal(t, model.KindUnsupported, catalog.Assets[2].Kind)
	assert.Equal(t, "chart", catalog.Assets[2].TypeHint)
	assert.Empty(t, catalog.Assets[2].BlobFilename)

	require.Len(t, catalog.Dropped, 3)
	assert.Equal(t, 3, catalog.Dropped[0].Index)
	assert.Equal(t, 4, catalog.Dropped[1].Index)
	assert.Equal(t, 5, catalog.Dropped[2].Index)
	assert.Equal(t, body, catalog.Raw)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"id": "aaaa-0001"}`},
		{"null", `null`},
		{"garbage", `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestClient_FetchCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/views/metadata/v1", r.URL.Path)
		w.Write([]byte(`[{"id": "aaaa-0001", "name": "Weekly Deaths", "assetType": "dataset"}]`))
	}))
	defer server.Close()

	client := NewClient(NewEndpoints(server.URL), sochttp.NewClient(sochttp.DefaultOptions()))
	catalog, err := client.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Assets, 1)
	assert.Equal(t, "Weekly Deaths", catalog.Assets[0].Name)
}

func TestClient_FetchCatalogServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(NewEndpoints(server.URL), sochttp.NewClient(sochttp.DefaultOptions()))
	catalog, err := client.FetchCatalog(context.Background())
	assert.Nil(t, catalog)

	var fetchErr *MetadataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
}

func TestClient_FetchCatalogUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(NewEndpoints(url), sochttp.NewClient(sochttp.DefaultOptions()))
	_, err := client.FetchCatalog(context.Background())

	var fetchErr *MetadataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
}

func TestClient_FetchCatalogMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": true}`))
	}))
	defer server.Close()

	client := NewClient(NewEndpoints(server.URL), sochttp.NewClient(sochttp.DefaultOptions()))
	_, err := client.FetchCatalog(context.Background())

	var fetchErr *MetadataFetchError
	assert.True(t, errors.As(err, &fetchErr))
}
