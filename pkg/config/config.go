// Package config loads the preprocessing configuration: struct defaults,
// overridden by HOTELPREP_* environment variables, then validated.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "HOTELPREP_"

type Config struct {
	Input    InputConfig    `koanf:"input"    validate:"required"`
	Output   OutputConfig   `koanf:"output"   validate:"required"`
	Split    SplitConfig    `koanf:"split"    validate:"required"`
	Pipeline PipelineConfig `koanf:"pipeline" validate:"required"`
	Baseline BaselineConfig `koanf:"baseline"`
	Log      LogConfig      `koanf:"log"`
}

type InputConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type OutputConfig struct {
	Dir  string `koanf:"dir"  validate:"required"`
	Plot bool   `koanf:"plot"`
}

type SplitConfig struct {
	TestSize    float64 `koanf:"test_size"    validate:"gt=0,lt=1"`
	RandomState int64   `koanf:"random_state"`
}

type PipelineConfig struct {
	Target         string   `koanf:"target"          validate:"required"`
	OutlierColumns []string `koanf:"outlier_columns" validate:"dive,required"`
}

type BaselineConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Epochs       int     `koanf:"epochs"        validate:"gte=1"`
	LearningRate float64 `koanf:"learning_rate" validate:"gt=0"`
	BatchSize    int     `koanf:"batch_size"    validate:"gte=1"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the settings used when nothing is overridden.
func Default() *Config {
	return &Config{
		Input:  InputConfig{Path: "../hotel_bookings.csv"},
		Output: OutputConfig{Dir: "hotel_bookings_preprocessed", Plot: true},
		Split:  SplitConfig{TestSize: 0.2, RandomState: 42},
		Pipeline: PipelineConfig{
			Target:         "is_canceled",
			OutlierColumns: []string{"adr", "lead_time"},
		},
		Baseline: BaselineConfig{Enabled: true, Epochs: 30, LearningRate: 0.1, BatchSize: 256},
		Log:      LogConfig{Level: "info"},
	}
}

// envKey maps HOTELPREP_SPLIT_TEST_SIZE to split.test_size.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' })
	if len(parts) < 2 {
		return strings.Join(parts, "")
	}
	return parts[0] + "." + strings.Join(parts[1:], "_")
}

// Load builds the configuration from defaults and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKey(key), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
