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

// FileConfig is the on-disk shape of the client configuration.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	DatabasePath       string         `json:"database_path" yaml:"database_path"`
	PlayerCommand      string         `json:"player_command" yaml:"player_command"`
	RecorderCommand    string         `json:"recorder_command" yaml:"recorder_command"`
	BackgroundCommand  string         `json:"background_command" yaml:"background_command"`
	RequestTimeout     timex.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// parseFile overlays values from the file given with -c/-config. Unset
// fields keep their current values; read or decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&cfg.ServerEndpointAddr: fc.ServerEndpointAddr,
		&cfg.DatabasePath:       fc.DatabasePath,
		&cfg.PlayerCommand:      fc.PlayerCommand,
		&cfg.RecorderCommand:    fc.RecorderCommand,
		&cfg.BackgroundCommand:  fc.BackgroundCommand,
	} {
		if v != "" {
			*dst = v
		}
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}
