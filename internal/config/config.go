package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"digihealth/internal/errors"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultInputFile is the spreadsheet the analysis reads when nothing else is configured.
const DefaultInputFile = "mental_health_social_media_datasets.xlsx"

// Config represents the complete application configuration
type Config struct {
	Paths  PathConfig   `mapstructure:"paths" yaml:"paths"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// PathConfig holds input locations
type PathConfig struct {
	InputFile string `mapstructure:"input_file" yaml:"input_file"`
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`
}

// OutputConfig holds where and how results are written
type OutputConfig struct {
	Dir          string  `mapstructure:"dir" yaml:"dir"`
	CleanedFile  string  `mapstructure:"cleaned_file" yaml:"cleaned_file"`
	ChartPrefix  string  `mapstructure:"chart_prefix" yaml:"chart_prefix"`
	ChartDPI     float64 `mapstructure:"chart_dpi" yaml:"chart_dpi"`
	Summary      bool    `mapstructure:"summary" yaml:"summary"`
	SummaryName  string  `mapstructure:"summary_name" yaml:"summary_name"`
	Manifest     bool    `mapstructure:"manifest" yaml:"manifest"`
	ManifestFile string  `mapstructure:"manifest_file" yaml:"manifest_file"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		Paths: PathConfig{
			InputFile: DefaultInputFile,
		},
		Output: OutputConfig{
			Dir:          ".",
			CleanedFile:  "cleaned_behavior_data.csv",
			ChartPrefix:  "FINAL_chart_",
			ChartDPI:     300,
			Summary:      true,
			SummaryName:  "analysis_summary",
			Manifest:     true,
			ManifestFile: "analysis_manifest.json",
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
// Precedence: env > config file > defaults. An empty cfgFile looks for
// digihealth.yaml in the working directory and tolerates its absence.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DIGIHEALTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())
	_ = v.BindEnv("log.level", "DIGIHEALTH_LOG_LEVEL", "LOG_LEVEL")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), fmt.Sprintf("failed to read config file %s", cfgFile))
		}
	} else {
		v.SetConfigName("digihealth")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to read digihealth.yaml")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to decode configuration")
	}

	if err := validateConfig(&c); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("paths.input_file", d.Paths.InputFile)
	v.SetDefault("paths.sheet", d.Paths.Sheet)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.cleaned_file", d.Output.CleanedFile)
	v.SetDefault("output.chart_prefix", d.Output.ChartPrefix)
	v.SetDefault("output.chart_dpi", d.Output.ChartDPI)
	v.SetDefault("output.summary", d.Output.Summary)
	v.SetDefault("output.summary_name", d.Output.SummaryName)
	v.SetDefault("output.manifest", d.Output.Manifest)
	v.SetDefault("output.manifest_file", d.Output.ManifestFile)
	v.SetDefault("log.level", d.Log.Level)
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Paths.InputFile) == "" {
		return errors.ConfigInvalid("input file is required")
	}
	if strings.TrimSpace(config.Output.Dir) == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if strings.TrimSpace(config.Output.CleanedFile) == "" {
		return errors.ConfigInvalid("cleaned data file name is required")
	}
	if config.Output.ChartDPI <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("chart DPI must be positive, got %g", config.Output.ChartDPI))
	}
	if config.Output.Summary && strings.TrimSpace(config.Output.SummaryName) == "" {
		return errors.ConfigInvalid("summary name is required when summaries are enabled")
	}
	if config.Output.Manifest && strings.TrimSpace(config.Output.ManifestFile) == "" {
		return errors.ConfigInvalid("manifest file name is required when the manifest is enabled")
	}
	return nil
}

// CleanedPath is the location of the cleaned CSV.
func (c *Config) CleanedPath() string {
	return filepath.Join(c.Output.Dir, c.Output.CleanedFile)
}

// ManifestPath is the location of the JSON run manifest.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ManifestFile)
}

// Save writes the configuration as YAML to path, creating parent directories.
func Save(c *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
