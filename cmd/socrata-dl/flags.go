package main

import (
	"github.com/spf13/pflag"

	"github.com/handiism/socrata-downloader/internal/config"
)

// settingsFlags holds the command line overrides of config.Settings.
type settingsFlags struct {
	configFile  string
	domain      string
	apiURL      string
	appToken    string
	outputDir   string
	logFile     string
	concurrency int
	timeout     int
	noSnapshot  bool
	noDetails   bool
}

func (f *settingsFlags) addFlags(fs *pflag.FlagSet) {
	defaults := config.DefaultSettings()

	fs.StringVar(&f.configFile, "config", "", "path to a JSON config file")
	fs.StringVarP(&f.domain, "domain", "d", defaults.Domain, "Socrata domain to download from")
	fs.StringVar(&f.apiURL, "api-url", "", "base URL of the Socrata site, overrides --domain")
	fs.StringVar(&f.appToken, "app-token", "", "Socrata app token sent as X-App-Token")
	fs.StringVarP(&f.outputDir, "output-dir", "o", defaults.OutputDir, "directory to store downloaded assets")
	fs.StringVar(&f.logFile, "log-file", defaults.LogFile, "activity log file, relative to the output directory unless absolute")
	fs.IntVarP(&f.concurrency, "concurrency", "c", defaults.Concurrency, "number of concurrent downloads")
	fs.IntVar(&f.timeout, "timeout", defaults.RequestTimeout, "per-request timeout in seconds, 0 disables")
	fs.BoolVar(&f.noSnapshot, "no-snapshot", false, "do not save the catalog as metadata_<timestamp>.json")
	fs.BoolVar(&f.noDetails, "no-asset-metadata", false, "do not save the view details of each asset as <id>_metadata.json")
}

// settings loads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func (f *settingsFlags) settings(fs *pflag.FlagSet) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if f.configFile != "" {
		var err error
		settings, err = config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
	}

	if fs.Changed("domain") {
		settings.Domain = f.domain
	}
	if fs.Changed("api-url") {
		settings.APIURL = f.apiURL
	}
	if fs.Changed("app-token") {
		settings.AppToken = f.appToken
	}
	if fs.Changed("output-dir") {
		settings.OutputDir = f.outputDir
	}
	if fs.Changed("log-file") {
		settings.LogFile = f.logFile
	}
	if fs.Changed("concurrency") {
		settings.Concurrency = f.concurrency
	}
	if fs.Changed("timeout") {
		settings.RequestTimeout = f.timeout
	}
	if f.noSnapshot {
		settings.SaveCatalogSnapshot = false
	}
	if f.noDetails {
		settings.SaveAssetMetadata = false
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
