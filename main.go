package main

import (
	"context"
	"errors"
	"os"
	"path"

	"github.com/scottpeterman/termtelent-sub002/cli/commands"
	app_info "github.com/scottpeterman/termtelent-sub002/internal/app-info"
	"github.com/scottpeterman/termtelent-sub002/internal/logger"
	"github.com/spf13/viper"
)

/**
 * Main entry point for all commands
 * Here we setup environment config via viper
 */

func setRunTimeConfig() error {
	userHomeDir, err := os.UserHomeDir()

	if err != nil {
		return err
	}

	configDir := path.Join(userHomeDir, ".config", app_info.NAME)

	if err := os.MkdirAll(configDir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}

	logFile := path.Join(configDir, app_info.NAME+".log")

	// share run-time config globally using viper
	viper.Set("log-file", logFile)
	viper.Set("config-dir", configDir)

	return nil
}

// Entry point for the cli
func main() {
	log := logger.New()

	err := setRunTimeConfig()

	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	// Get the "root" cobra cli command
	cmd := commands.Root()

	// execute the cobra command and exit with error code if necessary
	err = cmd.ExecuteContext(context.Background())

	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
