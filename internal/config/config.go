// Package config loads the runtime settings of the contacts API. Defaults can
// be overridden by an optional YAML file or by environment variables carrying
// the CONTACTS_ prefix, e.g. CONTACTS_DATABASE_HOST.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds the connection parameters for the MySQL database.
type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Name     string
}

// DSN returns the data source name understood by the go-sql-driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", d.User, d.Password, d.Host, d.Name)
}

// Config holds all runtime settings of the service.
type Config struct {
	Port        string
	HTTPLogging bool `mapstructure:"http_logging"`
	Database    DatabaseConfig
}

// Load builds the configuration from defaults, an optional contacts-api.yaml
// file and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	viper.SetDefault("port", "8080")
	viper.SetDefault("http_logging", true)
	viper.SetDefault("database", map[string]interface{}{
		"user":     "root",
		"password": "",
		"host":     "localhost:3306",
		"name":     "contacts",
	})

	viper.SetConfigName("contacts-api")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/contacts-api/")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("contacts")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
