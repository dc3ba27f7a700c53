// Package config loads the ircserv configuration from a YAML, TOML or JSON
// file (or URL), applies environment variable overrides, and validates the
// result.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultServerName is the compile-time server identity used in reply
// prefixes when no configuration overrides it.
const DefaultServerName = "ircserv"

// Config represents the server configuration
type Config struct {
	// IRC listener settings
	Server struct {
		Name     string   `yaml:"name" toml:"name" json:"name" env:"IRCSERV_NAME" validate:"required"`
		Host     string   `yaml:"host" toml:"host" json:"host" env:"IRCSERV_HOST"`
		Port     int      `yaml:"port" toml:"port" json:"port" env:"IRCSERV_PORT" validate:"min=0,max=65535"`
		Password string   `yaml:"password" toml:"password" json:"password" env:"IRCSERV_PASSWORD"`
		MOTD     []string `yaml:"motd" toml:"motd" json:"motd" env:"IRCSERV_MOTD"`
	} `yaml:"server" toml:"server" json:"server"`

	// Admin/status HTTP server settings
	Admin struct {
		Enabled      bool   `yaml:"enabled" toml:"enabled" json:"enabled" env:"IRCSERV_ADMIN_ENABLED"`
		Host         string `yaml:"host" toml:"host" json:"host" env:"IRCSERV_ADMIN_HOST"`
		Port         int    `yaml:"port" toml:"port" json:"port" env:"IRCSERV_ADMIN_PORT" validate:"min=0,max=65535"`
		Username     string `yaml:"username" toml:"username" json:"username" env:"IRCSERV_ADMIN_USERNAME"`
		PasswordHash string `yaml:"password_hash" toml:"password_hash" json:"password_hash" env:"IRCSERV_ADMIN_PASSWORD_HASH"`
	} `yaml:"admin" toml:"admin" json:"admin"`

	// Configuration source (file path or URL) the configuration was loaded from
	Source string `yaml:"-" toml:"-" json:"-"`
}

// Default returns a configuration with the built-in defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Name = DefaultServerName
	cfg.Server.Host = "::"
	cfg.Server.Port = 6667
	cfg.Server.MOTD = []string{"Welcome to our IRC server!"}
	cfg.Admin.Host = "127.0.0.1"
	cfg.Admin.Port = 8080
	return cfg
}

// Load loads configuration from a file or URL on top of the defaults and
// applies environment variable overrides.
func Load(source string) (*Config, error) {
	cfg := Default()
	cfg.Source = source

	if err := cfg.loadFromSource(source); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// FromEnv returns the default configuration with environment overrides only.
func FromEnv() *Config {
	cfg := Default()
	applyEnvOverrides(cfg)
	return cfg
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// loadFromSource loads configuration from a file or URL
func (c *Config) loadFromSource(source string) error {
	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return fmt.Errorf("failed to load config from URL: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to load config from URL, status: %s", resp.Status)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read config from URL: %v", err)
		}
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read config file: %v", err)
		}
	}

	// Determine the format based on file extension
	switch {
	case strings.HasSuffix(source, ".yaml") || strings.HasSuffix(source, ".yml"):
		err = yaml.Unmarshal(data, c)
	case strings.HasSuffix(source, ".toml"):
		err = toml.Unmarshal(data, c)
	case strings.HasSuffix(source, ".json"):
		err = json.Unmarshal(data, c)
	default:
		// Default to YAML
		err = yaml.Unmarshal(data, c)
	}

	if err != nil {
		return fmt.Errorf("failed to parse config: %v", err)
	}

	c.Source = source
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	applyEnvOverridesRecursive(reflect.ValueOf(cfg).Elem())
}

func applyEnvOverridesRecursive(v reflect.Value) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Skip unexported fields
		if field.PkgPath != "" {
			continue
		}

		envTag := field.Tag.Get("env")
		if envTag != "" {
			if envValue, exists := os.LookupEnv(envTag); exists {
				setFieldFromEnv(fieldValue, envValue)
			}
		} else if field.Type.Kind() == reflect.Struct {
			applyEnvOverridesRecursive(fieldValue)
		}
	}
}

// setFieldFromEnv sets a field's value from an environment variable
func setFieldFromEnv(field reflect.Value, envValue string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v, err := strconv.ParseInt(envValue, 10, 64); err == nil {
			field.SetInt(v)
		}
	case reflect.Bool:
		if v, err := parseBool(envValue); err == nil {
			field.SetBool(v)
		}
	case reflect.Slice:
		// Handle string slices
		if field.Type().Elem().Kind() == reflect.String {
			values := strings.Split(envValue, ",")
			slice := reflect.MakeSlice(field.Type(), len(values), len(values))
			for i, v := range values {
				slice.Index(i).SetString(strings.TrimSpace(v))
			}
			field.Set(slice)
		}
	}
}

func parseBool(s string) (bool, error) {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "y", nil
}

// ListenAddress returns the formatted listen address for the IRC listener.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("[%s]:%d", c.Server.Host, c.Server.Port)
}

// AdminListenAddress returns the formatted listen address for the admin
// server.
func (c *Config) AdminListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Admin.Host, c.Admin.Port)
}
