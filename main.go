package main

import (
	"context"
	"fmt"
	"os"

	"digihealth/domain/core"
	"digihealth/internal"
	"digihealth/internal/config"
	"digihealth/internal/container"
	"digihealth/internal/errors"
	"digihealth/internal/report"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(context.Background()))
}

// run performs one analysis with the configuration found in the working
// directory and returns the process exit status.
func run(ctx context.Context) int {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load("")
	if err != nil {
		internal.DefaultLogger.Error("Failed to load configuration: %v", err)
		return errors.ExitCode(err)
	}

	appContainer, err := container.New(appConfig, os.Stdout)
	if err != nil {
		internal.DefaultLogger.Error("Failed to create application container: %v", err)
		return errors.ExitCode(err)
	}

	appContainer.Progress.Banner("Digital Health Assistant - data analysis")
	result, err := appContainer.AnalysisService.Run(ctx)
	if err != nil {
		if core.IsNotFoundError(err) {
			fmt.Printf("File not found: %s\n", appConfig.Paths.InputFile)
			if wd, wdErr := os.Getwd(); wdErr == nil {
				fmt.Printf("Current directory: %s\n", wd)
			}
		}
		appContainer.Logger.Error("Analysis failed [%s]: %v", errors.GetCode(err), err)
		return errors.ExitCode(err)
	}

	report.WriteFinalSummary(os.Stdout, result.Analysis, result.Outputs)
	return 0
}
