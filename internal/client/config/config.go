// Package config loads runtime configuration for the gratitudes terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the gratitudes server
//	-d string   path of the local session database
//	-p string   audio player command
//	-r string   audio recorder command
//	-b string   background audio command
//	-t int      request timeout (seconds)
//
// Commands are split on whitespace. Placeholders are substituted per call:
// {file} for the player, {seconds} and {output} for the recorder, {url} and
// {volume} for the background player.
package config

import "time"

type Config struct {
	ServerEndpointAddr string
	DatabasePath       string
	PlayerCommand      string
	RecorderCommand    string
	BackgroundCommand  string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "gratitudes-client.db"
	c.PlayerCommand = "ffplay -nodisp -autoexit -loglevel quiet {file}"
	c.RecorderCommand = "ffmpeg -y -loglevel quiet -f pulse -i default -t {seconds} {output}"
	c.BackgroundCommand = "mpv --no-video --really-quiet --volume={volume} {url}"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then the config file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
