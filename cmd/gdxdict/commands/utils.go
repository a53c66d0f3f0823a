/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the gdxdict commands. Provides configuration loading,
logging setup, driver selection and the read step every command starts with.
*/

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/kleascm/gdxdict/pkg/core"
	"github.com/kleascm/gdxdict/pkg/drivers"
	"github.com/kleascm/gdxdict/pkg/exchange"
	"github.com/kleascm/gdxdict/pkg/inference"
	"github.com/kleascm/gdxdict/pkg/interfaces"
	"github.com/kleascm/gdxdict/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read as configuration
const EnvPrefix = "GDXDICT"

// UsageError reports bad command-line arguments
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// ExactArgs accepts exactly n positional arguments, reporting anything else as a usage error
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Msg: fmt.Sprintf("%s takes %d argument(s), got %d", cmd.Name(), n, len(args))}
		}
		return nil
	}
}

// SetDefaults registers default configuration values
func SetDefaults() {
	viper.SetDefault("log_level", string(logging.LogLevelInfo))
	viper.SetDefault("log_format", string(logging.LogFormatCustom))
	viper.SetDefault("log_max_files", 10)
	viper.SetDefault("driver", drivers.Default)
	viper.SetDefault("producer", exchange.DefaultProducer)
	viper.SetDefault("dump.format", "text")
}

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	SetDefaults()

	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}

// SetupLogging builds the logger described by the configuration. Console output goes to
// console.
func SetupLogging(console io.Writer) (*logging.Logger, error) {
	config := logging.DefaultConfig()
	config.Level = logging.LogLevel(viper.GetString("log_level"))
	config.Format = logging.LogFormat(viper.GetString("log_format"))
	config.OutputDir = viper.GetString("log_dir")
	config.MaxFiles = viper.GetInt("log_max_files")
	config.Console = console

	logger, err := logging.NewLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// OpenDriver selects the configured driver. Failing to load it is an open error on the
// system directory.
func OpenDriver(systemDir string) (interfaces.Driver, error) {
	driver, err := drivers.New(viper.GetString("driver"), systemDir)
	if err != nil {
		return nil, &core.OpenError{Path: systemDir, Mode: "load", Err: err}
	}
	return driver, nil
}

// session carries what one command run needs
type session struct {
	runID  string
	logger *logging.Logger
	driver interfaces.Driver
}

// startSession loads configuration, sets up logging and opens the driver
func startSession(console io.Writer, systemDir string) (*session, error) {
	if err := LoadConfig(); err != nil {
		return nil, err
	}

	logger, err := SetupLogging(console)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger.AddFields(logrus.Fields{"run_id": runID})

	driver, err := OpenDriver(systemDir)
	if err != nil {
		logger.Close()
		return nil, err
	}

	logger.Debug("Session started", map[string]interface{}{
		"driver":     driver.Name(),
		"system_dir": systemDir,
	})

	return &session{runID: runID, logger: logger, driver: driver}, nil
}

// read loads path and logs every domain the guesser resolved
func (s *session) read(path string) (*core.Store, *inference.Report, error) {
	store, report, err := exchange.NewReader(s.driver, s.logger.GetLogger()).Read(path)
	if err != nil {
		return nil, nil, err
	}
	for _, g := range report.Guesses {
		s.logger.LogDomainGuess(g.Symbol, g.Dimension, g.Key, len(g.Candidates))
	}
	return store, report, nil
}

func (s *session) close() {
	if err := s.logger.Close(); err != nil {
		s.logger.Warning("Failed to close logger", map[string]interface{}{"error": err.Error()})
	}
}
