package dto

import (
	"strings"

	"github.com/handiism/socrata-downloader/internal/model"
)

// JSONView is one entry of the /api/views/metadata/v1 catalog.
//
// Only the fields used by the downloader are decoded.
type JSONView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AssetType    string `json:"assetType"`
	BlobMimeType string `json:"blobMimeType"`
	BlobFilename string `json:"blobFilename"`
}

// ToAsset converts the entry to a model.Asset of the given kind.
//
// Blob fields are only carried over for blobs.
func (v *JSONView) ToAsset(kind model.AssetKind) (model.Asset, error) {
	asset, err := model.NewAsset(v.ID, strings.TrimSpace(v.Name), v.AssetType, kind)
	if err != nil {
		return model.Asset{}, err
	}
	if kind == model.KindBlob {
		asset.BlobMimeType = strings.TrimSpace(v.BlobMimeType)
		asset.BlobFilename = strings.TrimSpace(v.BlobFilename)
	}
	return asset, nil
}
