package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts "15s"-style strings or integer nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		d.Duration = time.Duration(val)
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values.
type JsonConfig struct {
	APIBaseURL     *string   `json:"api_base_url"`
	SessionDBPath  *string   `json:"session_db_path"`
	RequestTimeout *Duration `json:"request_timeout"`
	RateLimit      *float64  `json:"rate_limit"`
	RateBurst      *int      `json:"rate_burst"`
	LogLevel       *string   `json:"log_level"`
	OTLPEndpoint   *string   `json:"otlp_endpoint"`
	OTLPInsecure   *bool     `json:"otlp_insecure"`
}

// parseJSON overlays cfg with the fields present in the JSON file at path.
// An empty path loads nothing.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.SessionDBPath, jc.SessionDBPath)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setIf(&cfg.RateLimit, jc.RateLimit)
	setIf(&cfg.RateBurst, jc.RateBurst)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.OTLPEndpoint, jc.OTLPEndpoint)
	setIf(&cfg.OTLPInsecure, jc.OTLPInsecure)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
