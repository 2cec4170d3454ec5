// internal/config/load.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file.
const (
	EnvEndpoint  = "ANTCN_DEVICE_ENDPOINT"
	EnvTimeoutMs = "ANTCN_DEVICE_TIMEOUT_MS"
	EnvLogLevel  = "ANTCN_LOG_LEVEL"
)

// Default returns the deployment defaults of the RT-22 site.
func Default() *Config {
	return &Config{
		Antcn: AntcnConfig{
			Device: DeviceConfig{
				Endpoint:      "192.168.0.161:5001",
				TimeoutMs:     2000,
				ReplyMaxBytes: 512,
				ErrorTokens:   []string{"ERROR", "ERR", "NAK", "FAIL"},
			},
			Rupors: RuporsConfig{
				LeftAzArcsec:  -580,
				LeftElArcsec:  530,
				RightAzArcsec: 580,
				RightElArcsec: 530,
				Polarity:      -1,
				ErrorArcsec:   40,
			},
			PassThrough: PassThroughConfig{
				ZeroClass:  "reply",
				MessageMax: 80,
			},
			Log: LogConfig{
				Level:      "info",
				MaxSizeMB:  10,
				MaxBackups: 5,
				MaxAgeDays: 30,
			},
		},
	}
}

// Load reads defaults, then path (if not empty), then environment overrides.
// It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Antcn.Device.Endpoint = v
	}
	if v := os.Getenv(EnvTimeoutMs); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeoutMs, err)
		}
		cfg.Antcn.Device.TimeoutMs = ms
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Antcn.Log.Level = v
	}
	return nil
}
