// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	a := &cfg.Antcn

	// Error tokens compare case-insensitively; blanks are dropped.
	tokens := a.Device.ErrorTokens[:0]
	for _, t := range a.Device.ErrorTokens {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	a.Device.ErrorTokens = tokens

	// ------------------------------------------------------------
	// STATUS MIRROR NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if a.Status == nil {
		return
	}

	// device_name: ASCII already validated, truncate to 16 characters
	if len(a.Status.DeviceName) > 16 {
		a.Status.DeviceName = a.Status.DeviceName[:16]
	}
	if a.Status.TimeoutMs == 0 {
		a.Status.TimeoutMs = 1000
	}
}
