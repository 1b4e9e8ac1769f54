// Package model defines the core data structures used throughout
// the socrata-downloader application.
//
// # Asset
//
// Asset is one catalog entry read from a Socrata metadata endpoint:
//
//	asset, err := model.NewAsset("abcd-1234", "Weekly Deaths", "dataset", model.KindTable)
//	fmt.Println(asset.FileName()) // "abcd-1234.csv"
//
// The Kind of an asset is decided once, when the catalog is parsed, and
// selects the retrieval strategy:
//
//   - KindTable: tabular export through the rows.csv endpoint
//   - KindBlob: raw file through the download endpoint
//   - KindUnsupported: never downloaded, only logged as skipped
//
// # Task and Result
//
// Task pairs an asset with the local path it is written to. Every Task that
// is handed to the worker pool yields exactly one Result:
//
//	task := model.NewTask(asset, "/data/cdc")
//	fmt.Println(task.Path) // "/data/cdc/abcd-1234.csv"
package model
