package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix marks the environment variables Load reads.
const envPrefix = "SAFEBLOCK_"

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// DBPath is the bbolt file holding the settings record.
	DBPath string `koanf:"db_path" validate:"required"`

	// ReferenceFile optionally replaces the built-in adult-site list.
	ReferenceFile string `koanf:"reference_file"`

	// ReferenceFormat is the syntax of ReferenceFile: "plain" or "hosts".
	ReferenceFormat string `koanf:"reference_format" validate:"required,oneof=plain hosts"`

	// RulesPath is where the declarativeNetRequest ruleset is written.
	// Empty keeps rules in memory only.
	RulesPath string `koanf:"rules_path"`

	// CacheSize bounds the matcher's decision cache; 0 disables it.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"fp_rate"`

	// PasswordCodec selects how passwords are stored: "base64" (reversible,
	// kept for compatibility) or "bcrypt".
	PasswordCodec string `koanf:"password_codec" validate:"required,oneof=base64 bcrypt"`
}

// DEFAULT_APP_CONFIG defines the default application configuration.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:             "prod",
	LogLevel:        "info",
	DBPath:          "/var/lib/safe-block/settings.db",
	ReferenceFile:   "",
	ReferenceFormat: "plain",
	RulesPath:       "",
	CacheSize:       1000,
	BloomFPRate:     0.01,
	PasswordCodec:   "base64",
}

// validFPRate accepts a false-positive rate strictly between 0 and 1.
func validFPRate(fl validator.FieldLevel) bool {
	p := fl.Field().Float()
	return p > 0 && p < 1
}

// envLoader loads SAFEBLOCK_-prefixed variables, lowercasing keys and
// trimming values. It can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the "fp_rate" tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("fp_rate", validFPRate)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
