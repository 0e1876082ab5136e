package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mcc-sewer-dashboard/generators"
	"mcc-sewer-dashboard/preprocessing"
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr" validate:"required,hostname_port"`
	AdminAddr   string   `yaml:"admin_addr" validate:"omitempty,hostname_port"`
	CORSOrigins []string `yaml:"cors_origins" validate:"dive,eq=*|url"`
}

// DataConfig locates the source tables. Empty paths select synthetic data.
type DataConfig struct {
	ManholeFile       string `yaml:"manhole_file"`
	PipeFile          string `yaml:"pipe_file"`
	Seed              uint64 `yaml:"seed"`
	SyntheticManholes int    `yaml:"synthetic_manholes" validate:"min=0,max=100000"`
	SyntheticPipes    int    `yaml:"synthetic_pipes" validate:"min=0,max=100000"`
	SourcePipeLimit   int    `yaml:"source_pipe_limit" validate:"min=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"` // debug, info, warn, error
	Format string `yaml:"format" validate:"oneof=json text"`
}

// ExportConfig selects where the export command writes. S3 is used only
// when a bucket is set.
type ExportConfig struct {
	Dir      string `yaml:"dir"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Prefix string `yaml:"s3_prefix"`
	S3Region string `yaml:"s3_region" validate:"required_with=S3Bucket"`
}

var validate = validator.New()

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			AdminAddr:   ":9090",
			CORSOrigins: []string{"*"},
		},
		Data: DataConfig{
			ManholeFile:       "data/AddedFields.csv",
			PipeFile:          "data/Layer1Pipe.csv",
			Seed:              42,
			SyntheticManholes: generators.DefaultManholeCount,
			SyntheticPipes:    generators.DefaultPipeCount,
			SourcePipeLimit:   generators.SourcePipeLimit,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Export: ExportConfig{
			Dir:      "exports",
			S3Region: "us-east-1",
		},
	}
}

// Load layers a YAML file over the defaults, then .env and SEWER_* variables
// over that, and validates the result. An empty path or a missing file
// leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	str := map[string]*string{
		"SEWER_ADDR":         &c.Server.Addr,
		"SEWER_ADMIN_ADDR":   &c.Server.AdminAddr,
		"SEWER_MANHOLE_FILE": &c.Data.ManholeFile,
		"SEWER_PIPE_FILE":    &c.Data.PipeFile,
		"SEWER_LOG_LEVEL":    &c.Logging.Level,
		"SEWER_LOG_FORMAT":   &c.Logging.Format,
		"SEWER_EXPORT_DIR":   &c.Export.Dir,
		"SEWER_S3_BUCKET":    &c.Export.S3Bucket,
		"SEWER_S3_PREFIX":    &c.Export.S3Prefix,
		"SEWER_S3_REGION":    &c.Export.S3Region,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v := os.Getenv("SEWER_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}

	if v := os.Getenv("SEWER_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SEWER_SEED: %w", err)
		}
		c.Data.Seed = seed
	}
	ints := map[string]*int{
		"SEWER_SYNTHETIC_MANHOLES": &c.Data.SyntheticManholes,
		"SEWER_SYNTHETIC_PIPES":    &c.Data.SyntheticPipes,
		"SEWER_SOURCE_PIPE_LIMIT":  &c.Data.SourcePipeLimit,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	return nil
}

// DatasetOptions converts the data section for the loader.
func (c *Config) DatasetOptions() preprocessing.Options {
	return preprocessing.Options{
		ManholeFile:       c.Data.ManholeFile,
		PipeFile:          c.Data.PipeFile,
		Seed:              c.Data.Seed,
		SyntheticManholes: c.Data.SyntheticManholes,
		SyntheticPipes:    c.Data.SyntheticPipes,
		SourcePipeLimit:   c.Data.SourcePipeLimit,
	}
}
