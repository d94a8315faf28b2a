package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load builds the configuration from defaults, environment variables and args,
// in increasing order of precedence, and validates the result.
// Inputs are not required here; call InputConfig.Validate once they are final.
// Returns flag.ErrHelp unwrapped when args ask for usage.
func Load(args []string) (*Config, error) {
	return LoadWithOutput(args, os.Stderr)
}

// LoadWithOutput is Load with flag usage and errors written to out.
func LoadWithOutput(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}
	v := reflect.ValueOf(cfg).Elem()

	if err := loadStruct(v); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	fs := flag.NewFlagSet("volumereport", flag.ContinueOnError)
	fs.SetOutput(out)
	bindFlags(fs, v)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("config flags: %w", err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("config flags: unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// bindFlags registers a flag for every field with a flag tag. Flag values are
// parsed with the same rules as environment variables.
func bindFlags(fs *flag.FlagSet, v reflect.Value) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			bindFlags(fs, fieldVal)
			continue
		}

		name := field.Tag.Get("flag")
		if name == "" {
			continue
		}

		usage := field.Tag.Get("usage")
		if env := field.Tag.Get("env"); env != "" {
			usage = fmt.Sprintf("%s (env %s)", usage, env)
		}
		if def := field.Tag.Get("default"); def != "" {
			usage = fmt.Sprintf("%s (default %s)", usage, def)
		}

		target := fieldVal
		fs.Func(name, usage, func(value string) error {
			return setField(target, value)
		})
	}
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		field.SetFloat(f)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Input validation
	if c.Input.Dir != "" && (c.Input.DeviceFile != "" || c.Input.DataFile != "") {
		errs = append(errs, "INPUT_DIR cannot be combined with DEVICE_FILE or DATA_FILE")
	}
	if strings.TrimSpace(c.Input.Encoding) == "" {
		errs = append(errs, "INPUT_ENCODING must not be empty")
	}

	// Window validation
	if c.Window.Recent <= 0 {
		errs = append(errs, "WINDOW_RECENT must be positive")
	}
	if c.Window.Prior <= c.Window.Recent {
		errs = append(errs, fmt.Sprintf("WINDOW_PRIOR (%s) must be greater than WINDOW_RECENT (%s)",
			c.Window.Prior, c.Window.Recent))
	}
	if c.Window.InvalidVolume <= 0 {
		errs = append(errs, "INVALID_VOLUME must be positive")
	}

	// Policy validation
	validMissing := map[string]bool{"skip": true, "abort": true}
	if !validMissing[strings.ToLower(c.Policy.MissingData)] {
		errs = append(errs, fmt.Sprintf("MISSING_DATA_POLICY (%q) must be one of: skip, abort", c.Policy.MissingData))
	}
	validDuplicates := map[string]bool{"merge": true, "reject": true}
	if !validDuplicates[strings.ToLower(c.Policy.Duplicates)] {
		errs = append(errs, fmt.Sprintf("DUPLICATE_DEVICE_POLICY (%q) must be one of: merge, reject", c.Policy.Duplicates))
	}

	// Report validation
	if c.Report.WarningAverage < 0 {
		errs = append(errs, "WARNING_AVERAGE must be non-negative")
	}
	if c.Report.AlertAverage < c.Report.WarningAverage {
		errs = append(errs, fmt.Sprintf("ALERT_AVERAGE (%g) must be >= WARNING_AVERAGE (%g)",
			c.Report.AlertAverage, c.Report.WarningAverage))
	}
	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[strings.ToLower(c.Report.Color)] {
		errs = append(errs, fmt.Sprintf("REPORT_COLOR (%q) must be one of: auto, always, never", c.Report.Color))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
