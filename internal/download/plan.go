package download

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/socrata-downloader/internal/model"
)

// Plan is the work derived from a catalog: the tasks to download and the
// assets skipped because they have no supported export.
type Plan struct {
	Tasks   []model.Task
	Skipped []model.Asset
}

// PlanOptions tunes NewPlan.
type PlanOptions struct {
	// Reserved lists paths the run writes itself (activity log, lock file,
	// catalog snapshot). No task is ever given one of them.
	Reserved []string

	// AssetMetadata gives every task a MetadataPath for the view details
	// of its asset.
	AssetMetadata bool
}

// NewPlan turns classified assets into tasks writing under dir.
//
// Every task gets its own path. When two assets want the same file name
// the first one in catalog order keeps it and later ones get the asset id
// appended to the stem, then a counter, so the same catalog always yields
// the same paths.
func NewPlan(assets []model.Asset, dir string, opts PlanOptions) *Plan {
	plan := &Plan{}
	claimed := make(pathSet)
	for _, path := range opts.Reserved {
		claimed[pathKey(path)] = true
	}

	for _, asset := range assets {
		if asset.Kind == model.KindUnsupported {
			plan.Skipped = append(plan.Skipped, asset)
			continue
		}

		task := model.Task{
			Asset: asset,
			Path:  claimed.claim(dir, asset.FileName(), asset.CollisionSuffix()),
		}
		if opts.AssetMetadata {
			task.MetadataPath = claimed.claim(dir, asset.MetadataFileName(), asset.CollisionSuffix())
		}
		plan.Tasks = append(plan.Tasks, task)
	}

	return plan
}

type pathSet map[string]bool

// claim returns the first free path for fileName under dir and marks it
// taken. model.JoinPath keeps suffixes whole, so every attempt yields a
// new path and the loop ends.
func (s pathSet) claim(dir, fileName, suffix string) string {
	path := model.JoinPath(dir, fileName, "")
	for n := 1; s[pathKey(path)]; n++ {
		next := suffix
		if n > 1 {
			next = fmt.Sprintf("%s_%d", suffix, n)
		}
		path = model.JoinPath(dir, fileName, next)
	}
	s[pathKey(path)] = true
	return path
}

// pathKey folds case so names differing only in case, which collide on
// Windows and macOS, count as the same path.
func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return strings.ToLower(filepath.Clean(path))
}
