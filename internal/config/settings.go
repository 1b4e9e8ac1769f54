package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	sochttp "github.com/handiism/socrata-downloader/internal/http"
	"github.com/handiism/socrata-downloader/internal/socrata"
)

// Settings holds all configuration options.
type Settings struct {
	// Source settings
	Domain   string `json:"domain"`
	APIURL   string `json:"api_url"` // site root override, e.g. http://localhost:8080
	AppToken string `json:"app_token"`

	// Output settings
	OutputDir           string `json:"output_dir"`
	LogFile             string `json:"log_file"` // relative paths live in OutputDir
	SaveCatalogSnapshot bool   `json:"save_catalog_snapshot"`
	SaveAssetMetadata   bool   `json:"save_asset_metadata"` // <id>_metadata.json per asset

	// Download settings
	Concurrency    int    `json:"concurrency"`
	RequestTimeout int    `json:"request_timeout"` // seconds, 0 disables
	UserAgent      string `json:"user_agent"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Domain:              "data.cdc.gov",
		OutputDir:           "cdc_data",
		LogFile:             "socrata_downloader_log.txt",
		SaveCatalogSnapshot: true,
		SaveAssetMetadata:   true,
		Concurrency:         3,
		RequestTimeout:      300,
		UserAgent:           "socrata-downloader",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the values the download pipeline assumes.
func (s *Settings) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(s.Domain) == "" && strings.TrimSpace(s.APIURL) == "" {
		result = multierror.Append(result, errors.New("domain must not be empty"))
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		result = multierror.Append(result, errors.New("output_dir must not be empty"))
	}
	if s.Concurrency < 1 {
		result = multierror.Append(result, fmt.Errorf("concurrency must be at least 1, got %d", s.Concurrency))
	}
	if s.RequestTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("request_timeout must not be negative, got %d", s.RequestTimeout))
	}
	return result.ErrorOrNil()
}

// LogPath returns the log file path, resolving a relative LogFile inside
// OutputDir.
func (s *Settings) LogPath() string {
	if filepath.IsAbs(s.LogFile) {
		return s.LogFile
	}
	return filepath.Join(s.OutputDir, s.LogFile)
}

// ToEndpoints returns the Socrata endpoints to talk to. APIURL wins over
// Domain when both are set.
func (s *Settings) ToEndpoints() socrata.Endpoints {
	if strings.TrimSpace(s.APIURL) != "" {
		return socrata.NewEndpoints(s.APIURL)
	}
	return socrata.NewEndpoints(s.Domain)
}

// ToHTTPOptions converts settings to HTTP client options.
func (s *Settings) ToHTTPOptions() sochttp.Options {
	opts := sochttp.DefaultOptions()
	opts.Timeout = time.Duration(s.RequestTimeout) * time.Second
	opts.AppToken = s.AppToken
	if s.UserAgent != "" {
		opts.UserAgent = s.UserAgent
	}
	return opts
}
