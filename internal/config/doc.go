// Package config provides configuration management for socrata-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Validation of the values the download pipeline relies on
//   - Conversion to the options of other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Domain data.cdc.gov, output to ./cdc_data, 3 concurrent downloads
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.Concurrency = 8
//	err := settings.Save("/path/to/config.json")
package config
