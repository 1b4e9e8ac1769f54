package model

import (
	"errors"
	"strings"

	ioutils "github.com/handiism/socrata-downloader/internal/io"
)

// AssetKind classifies a catalog entry and selects how it is retrieved.
type AssetKind int

const (
	// KindUnsupported marks assets that are never downloaded (charts, maps,
	// external links and anything else without an export).
	KindUnsupported AssetKind = iota

	// KindTable is a tabular dataset exported as CSV.
	KindTable

	// KindBlob is an uploaded file served byte-for-byte.
	KindBlob
)

// String returns the lower-case name used in logs.
func (k AssetKind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindBlob:
		return "blob"
	default:
		return "unsupported"
	}
}

// ErrEmptyID is returned by NewAsset when the catalog entry has no id.
var ErrEmptyID = errors.New("model: asset id is empty")

// Asset represents one entry of a Socrata catalog.
//
// Asset values are created by the metadata client and passed by value
// afterwards; nothing in the pipeline modifies them.
type Asset struct {
	// ID is the four-by-four identifier, unique within a domain.
	ID string

	// Name is the display label of the asset.
	Name string

	// TypeHint is the raw assetType reported by the catalog.
	TypeHint string

	// Kind is derived from TypeHint when the catalog is parsed.
	Kind AssetKind

	// BlobMimeType is the MIME type segment of the blob download URL.
	// Only set for blobs.
	BlobMimeType string

	// BlobFilename is the original name of an uploaded file.
	// Only set for blobs.
	BlobFilename string
}

// NewAsset creates an Asset, rejecting an empty id.
func NewAsset(id, name, typeHint string, kind AssetKind) (Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Asset{}, ErrEmptyID
	}
	return Asset{
		ID:       id,
		Name:     name,
		TypeHint: typeHint,
		Kind:     kind,
	}, nil
}

// Label returns the name of the asset, or its id when the name is empty.
func (a Asset) Label() string {
	if strings.TrimSpace(a.Name) == "" {
		return a.ID
	}
	return a.Name
}

// FileName returns the preferred base file name for the asset.
//
// Tables are saved as "<id>.csv". Blobs keep their uploaded file name when
// the catalog provides one and fall back to "<id>.file". Unsupported
// assets have no file name.
func (a Asset) FileName() string {
	switch a.Kind {
	case KindTable:
		return sanitizeFileName(a.ID) + ".csv"
	case KindBlob:
		if name := sanitizeFileName(a.BlobFilename); name != "" {
			return name
		}
		return sanitizeFileName(a.ID) + ".file"
	default:
		return ""
	}
}

// CollisionSuffix returns what is inserted before the extension of the
// asset's file names when another asset already claimed the plain name.
//
// Example:
//
//	// BlobFilename "report.pdf", ID "abcd-1234"
//	JoinPath(dir, a.FileName(), a.CollisionSuffix()) // dir/report_abcd-1234.pdf
func (a Asset) CollisionSuffix() string {
	return "_" + sanitizeFileName(a.ID)
}

// MetadataFileName returns the name of the file holding the view details
// of the asset, "<id>_metadata.json".
func (a Asset) MetadataFileName() string {
	return sanitizeFileName(a.ID) + "_metadata.json"
}

// sanitizeFileName makes name safe to use as a file name on every platform.
func sanitizeFileName(name string) string {
	return strings.TrimSpace(ioutils.SanitizeFileName(name))
}
