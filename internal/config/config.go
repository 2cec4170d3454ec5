// internal/config/config.go
package config

type Config struct {
	Antcn AntcnConfig `yaml:"antcn"`
}

type AntcnConfig struct {
	Device      DeviceConfig      `yaml:"device"`
	Rupors      RuporsConfig      `yaml:"rupors"`
	PassThrough PassThroughConfig `yaml:"passthrough"`
	Status      *StatusConfig     `yaml:"status"` // optional, opt-in
	Log         LogConfig         `yaml:"log"`
}

// ---- DEVICE (antenna controller link) ----

type DeviceConfig struct {
	Endpoint      string   `yaml:"endpoint"`
	TimeoutMs     int      `yaml:"timeout_ms"`
	ReplyMaxBytes int      `yaml:"reply_max_bytes"`
	ErrorTokens   []string `yaml:"error_tokens"`
}

// ---- RUPORS (feed-horn bias set, arc-seconds) ----

type RuporsConfig struct {
	LeftAzArcsec  float64 `yaml:"left_az_arcsec"`
	LeftElArcsec  float64 `yaml:"left_el_arcsec"`
	RightAzArcsec float64 `yaml:"right_az_arcsec"`
	RightElArcsec float64 `yaml:"right_el_arcsec"`
	Polarity      int     `yaml:"polarity"`
	ErrorArcsec   float64 `yaml:"error_arcsec"`
}

// ---- PASS-THROUGH ----

type PassThroughConfig struct {
	ZeroClass  string `yaml:"zero_class"` // reply | decline
	MessageMax int    `yaml:"message_max"`
}

// ---- STATUS MIRROR ----

type StatusConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}
