package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// OCR engine names
const (
	EngineTesseract   = "tesseract"
	EngineRekognition = "rekognition"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Upload UploadConfig `mapstructure:"upload"`
	OCR    OCRConfig    `mapstructure:"ocr"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	Environment    string        `mapstructure:"environment" validate:"oneof=development staging production test"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// UploadConfig limits the multipart body accepted by POST /verify
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gt=0"`
}

// OCRConfig selects and bootstraps the OCR engine.
// Nothing here is read from the process environment after startup; the
// resolved values are handed to the engine constructor.
type OCRConfig struct {
	Engine             string   `mapstructure:"engine" validate:"oneof=tesseract rekognition"`
	Languages          []string `mapstructure:"languages" validate:"min=1,dive,required"`
	TessdataPrefix     string   `mapstructure:"tessdata_prefix"`
	TessdataCandidates []string `mapstructure:"tessdata_candidates"`
	PageSegMode        int      `mapstructure:"page_seg_mode" validate:"min=0,max=13"`
	AWSRegion          string   `mapstructure:"aws_region" validate:"required_if=Engine rekognition"`
}

// ResolveTessdataPrefix returns the explicit tessdata prefix if set, otherwise
// the first candidate directory that exists. An empty result means Tesseract
// falls back to its compiled-in default.
func (c *OCRConfig) ResolveTessdataPrefix() string {
	return resolveTessdataPrefix(c.TessdataPrefix, c.TessdataCandidates, dirExists)
}

func resolveTessdataPrefix(explicit string, candidates []string, exists func(string) bool) string {
	if explicit != "" {
		return explicit
	}
	for _, dir := range candidates {
		if exists(dir) {
			return dir
		}
	}
	return ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Validate checks struct constraints and environment-specific rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.IsProductionLike() {
		for _, origin := range c.Server.AllowedOrigins {
			if strings.Contains(origin, "localhost") {
				return errors.New("localhost CORS origin not allowed in " + c.Server.Environment + " - set NRICVERIFY_SERVER_ALLOWED_ORIGINS")
			}
		}
	}
	return nil
}

var validate = validator.New()

// Load loads configuration from environment and config files.
// This function applies development defaults and is suitable for local development.
func Load(serviceName string) (*Config, error) {
	return loadConfig(serviceName)
}

// LoadWithValidation loads configuration and validates it for the current environment.
// Use this function in service main() for fail-fast behavior.
func LoadWithValidation(serviceName string) (*Config, error) {
	cfg, err := loadConfig(serviceName)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfig(serviceName string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("NRICVERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nric-verify")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Env vars arrive as a single comma separated string
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.OCR.Languages = splitList(cfg.OCR.Languages)
	cfg.OCR.TessdataCandidates = splitList(cfg.OCR.TessdataCandidates)
	cfg.Server.Environment = strings.ToLower(cfg.Server.Environment)
	cfg.OCR.Engine = strings.ToLower(cfg.OCR.Engine)

	return &cfg, nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5000", "http://localhost:3000"})

	// Upload defaults
	v.SetDefault("upload.max_bytes", 10<<20)

	// OCR defaults
	v.SetDefault("ocr.engine", EngineTesseract)
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("ocr.tessdata_prefix", "")
	v.SetDefault("ocr.tessdata_candidates", DefaultTessdataCandidates)
	v.SetDefault("ocr.page_seg_mode", 0)
	v.SetDefault("ocr.aws_region", "ap-southeast-1")
}

// DefaultTessdataCandidates lists where distro and buildpack installs of
// Tesseract put their language data.
var DefaultTessdataCandidates = []string{
	"/usr/share/tesseract-ocr/5/tessdata",
	"/usr/share/tesseract-ocr/4.00/tessdata",
	"/usr/share/tessdata",
	"/app/.apt/usr/share/tesseract-ocr/5/tessdata",
	"/app/.apt/usr/share/tesseract-ocr/4.00/tessdata",
}
