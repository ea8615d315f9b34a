package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ServiceSettings aggregates all settings of the service process.
type ServiceSettings struct {
	Server   ServerSettings   `mapstructure:"server"`
	Logger   LoggerSettings   `mapstructure:"logger"`
	Database DatabaseSettings `mapstructure:"database"`
}

// Validate checks all nested settings.
func (s *ServiceSettings) Validate() error {
	if err := s.Server.Validate(); err != nil {
		return err
	}
	if err := s.Logger.Validate(); err != nil {
		return err
	}
	return s.Database.Validate()
}

// InitializeServiceSettings loads the service settings from a YAML file with
// sensible defaults. When configPath is empty the loader looks for
// service.yaml in ./configs and the working directory; a missing file is not
// an error, defaults and environment overrides apply. The PORT environment
// variable overrides server.port.
func InitializeServiceSettings(configPath string) (*ServiceSettings, error) {
	v := viper.New()

	v.SetDefault("server.port", "8000")
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "cloai-usage.db")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("service")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read service settings: %w", err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		v.Set("server.port", port)
	}

	var settings ServiceSettings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal service settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}
