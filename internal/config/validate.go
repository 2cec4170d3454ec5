// internal/config/validate.go
package config

import (
	"fmt"
	"net"
	"strconv"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	a := cfg.Antcn

	// ------------------------------------------------------------
	// DEVICE LINK
	// ------------------------------------------------------------

	if err := validateEndpoint("device.endpoint", a.Device.Endpoint); err != nil {
		return err
	}
	if a.Device.TimeoutMs <= 0 || a.Device.TimeoutMs > 60000 {
		return fmt.Errorf(
			"device.timeout_ms %d is outside [1, 60000]",
			a.Device.TimeoutMs,
		)
	}
	if a.Device.ReplyMaxBytes <= 0 || a.Device.ReplyMaxBytes > 65536 {
		return fmt.Errorf(
			"device.reply_max_bytes %d is outside [1, 65536]",
			a.Device.ReplyMaxBytes,
		)
	}

	// ------------------------------------------------------------
	// RUPORS
	// ------------------------------------------------------------

	if a.Rupors.Polarity < -1 || a.Rupors.Polarity > 1 {
		return fmt.Errorf("rupors.polarity must be -1, 0 or 1, got %d", a.Rupors.Polarity)
	}
	if a.Rupors.ErrorArcsec < 0 {
		return fmt.Errorf("rupors.error_arcsec must not be negative")
	}

	// ------------------------------------------------------------
	// PASS-THROUGH
	// ------------------------------------------------------------

	switch a.PassThrough.ZeroClass {
	case "reply", "decline":
	default:
		return fmt.Errorf(
			"passthrough.zero_class %q must be one of: reply, decline",
			a.PassThrough.ZeroClass,
		)
	}
	if a.PassThrough.MessageMax <= 0 || a.PassThrough.MessageMax > 4096 {
		return fmt.Errorf("passthrough.message_max %d is outside [1, 4096]", a.PassThrough.MessageMax)
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if s := a.Status; s != nil {
		if err := validateEndpoint("status.endpoint", s.Endpoint); err != nil {
			return err
		}
		for i := 0; i < len(s.DeviceName); i++ {
			if s.DeviceName[i] > 0x7F {
				return fmt.Errorf("status.device_name must contain ASCII characters only")
			}
		}
		if s.TimeoutMs < 0 {
			return fmt.Errorf("status.timeout_ms must not be negative")
		}
		// slot * 20 registers must stay addressable
		if uint32(s.Slot)*20+20 > 65536 {
			return fmt.Errorf("status.slot %d out of register range", s.Slot)
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch a.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of: debug, info, warn, error", a.Log.Level)
	}

	return nil
}

func validateEndpoint(field, ep string) error {
	if ep == "" {
		return fmt.Errorf("%s required", field)
	}
	host, port, err := net.SplitHostPort(ep)
	if err != nil {
		return fmt.Errorf("%s %q: %w", field, ep, err)
	}
	if host == "" {
		return fmt.Errorf("%s %q: host required", field, ep)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("%s %q: bad port", field, ep)
	}
	return nil
}
