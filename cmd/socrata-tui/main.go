package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/handiism/socrata-downloader/internal/config"
	"github.com/handiism/socrata-downloader/internal/tui"
)

func main() {
	configFile := pflag.String("config", "", "path to a JSON config file")
	outputDir := pflag.StringP("output-dir", "o", "", "directory to store downloaded assets")
	concurrency := pflag.IntP("concurrency", "c", 0, "number of concurrent downloads")
	pflag.Parse()

	settings := config.DefaultSettings()
	if *configFile != "" {
		var err error
		settings, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *outputDir != "" {
		settings.OutputDir = *outputDir
	}
	if *concurrency > 0 {
		settings.Concurrency = *concurrency
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
