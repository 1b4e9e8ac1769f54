package socrata

import (
	"strings"

	"github.com/handiism/socrata-downloader/internal/model"
)

// Classify maps a catalog type hint to an asset kind.
//
// Datasets export as tables; uploaded files ("file", or "blob"/"blobby" as
// older catalogs call them) download as blobs. Anything else, including an
// empty hint, is unsupported.
func Classify(typeHint string) model.AssetKind {
	switch strings.ToLower(strings.TrimSpace(typeHint)) {
	case "dataset", "table":
		return model.KindTable
	case "file", "blob", "blobby":
		return model.KindBlob
	default:
		return model.KindUnsupported
	}
}
