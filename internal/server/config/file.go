package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/leeya018/gratitudes/internal/flagx"
	"github.com/leeya018/gratitudes/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the server configuration. Durations
// accept "15m" strings or integer nanoseconds.
type FileConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	DailyEntryLimit              int            `json:"daily_entry_limit" yaml:"daily_entry_limit"`
	Timezone                     string         `json:"timezone" yaml:"timezone"`
	LogFormat                    string         `json:"log_format" yaml:"log_format"`
	RateLimitRPS                 float64        `json:"rate_limit_rps" yaml:"rate_limit_rps"`
	MaxAudioBytes                int64          `json:"max_audio_bytes" yaml:"max_audio_bytes"`
}

// decodeFile unmarshals data as YAML when the path ends in .yaml or .yml,
// and as JSON otherwise.
func decodeFile(path string, data []byte) (*FileConfig, error) {
	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// parseFile overlays values from the file given with -c/-config. Only
// fields present in the file replace the current values. A missing or
// malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.DailyEntryLimit > 0 {
		config.DailyEntryLimit = c.DailyEntryLimit
	}
	setString(&config.Timezone, c.Timezone)
	setString(&config.LogFormat, c.LogFormat)
	if c.RateLimitRPS > 0 {
		config.RateLimitRPS = c.RateLimitRPS
	}
	if c.MaxAudioBytes > 0 {
		config.MaxAudioBytes = c.MaxAudioBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
