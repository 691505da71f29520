package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

var ErrInvalidChunkSize = errors.New("chunk size must be a positive integer")

type Config struct {
	ChunkSize     int           `yaml:"chunkSize" envconfig:"CHUNK_SIZE"`
	NodeEndpoints []string      `yaml:"nodeEndpoints" envconfig:"NODE_ENDPOINT"`
	NodeFallback  bool          `yaml:"nodeFallback" envconfig:"NODE_FALLBACK"`
	HTTPTimeout   time.Duration `yaml:"httpTimeout" envconfig:"HTTP_TIMEOUT"`

	KeyJSONPath        string `yaml:"keyJsonPath" envconfig:"KEY_JSON_PATH"`
	Web3SignerEndpoint string `yaml:"web3signerEndpoint" envconfig:"WEB3SIGNER_ENDPOINT"`

	ResultsDir string   `yaml:"resultsDir" envconfig:"RESULTS_DIR"`
	SQLitePath string   `yaml:"sqlitePath" envconfig:"SQLITE_PATH"`
	S3         S3Config `yaml:"s3"`

	WebhookURL   string `yaml:"webhookUrl" envconfig:"WEBHOOK_URL"`
	WebhookTitle string `yaml:"webhookTitle" envconfig:"WEBHOOK_TITLE"`

	LogLevel string `yaml:"logLevel" envconfig:"LOG_LEVEL"`
	LogDir   string `yaml:"logDir" envconfig:"LOG_DIR"`
}

// S3Config enables the S3 report sink when Endpoint and Bucket are set.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" envconfig:"S3_ENDPOINT"`
	Secure    bool   `yaml:"secure" envconfig:"S3_SECURE"`
	Bucket    string `yaml:"bucket" envconfig:"S3_BUCKET"`
	Region    string `yaml:"region" envconfig:"S3_REGION"`
	AccessKey string `yaml:"accessKey" envconfig:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secretKey" envconfig:"S3_SECRET_KEY"`
	Path      string `yaml:"path" envconfig:"S3_PATH"`
}

func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:     500,
		NodeEndpoints: []string{"127.0.0.1:5052"},
		HTTPTimeout:   20 * time.Second,
		KeyJSONPath:   "keys.json",
		ResultsDir:    "results",
		WebhookTitle:  "Validator Status",
		LogLevel:      "info",
		LogDir:        ".",
	}
}

// LoadConfig builds the configuration from, in increasing priority: defaults, the
// optional .env file, the optional YAML file at configPath and the environment.
func LoadConfig(envFile, configPath string) (Config, error) {
	cfg := DefaultConfig()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			// godotenv never overrides variables that are already set.
			if err := godotenv.Load(envFile); err != nil {
				return cfg, fmt.Errorf("error loading env file %s: %w", envFile, err)
			}
		}
	}

	if configPath != "" {
		if err := readConfigFile(&cfg, configPath); err != nil {
			return cfg, err
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("error reading environment: %w", err)
	}

	cfg.NodeEndpoints = NormalizeEndpoints(cfg.NodeEndpoints)
	return cfg, nil
}

func readConfigFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening config file %v: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("error decoding config file %v: %w", path, err)
	}
	return nil
}

// NormalizeEndpoints trims blanks left by "a, b," style lists.
func NormalizeEndpoints(endpoints []string) []string {
	out := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks the settings the status check cannot run without.
func (c Config) Validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if len(c.NodeEndpoints) == 0 {
		return errors.New("no node endpoints configured")
	}
	if c.KeyJSONPath == "" && c.Web3SignerEndpoint == "" {
		return errors.New("either a key json path or a web3signer endpoint is required")
	}
	if c.ResultsDir == "" {
		return errors.New("results dir must not be empty")
	}
	return nil
}
