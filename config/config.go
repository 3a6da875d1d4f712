// Package config loads the fraudintel configuration from defaults, an
// optional YAML file, an optional .env file and the environment, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/toriana04/fraudintel/ai"
	"github.com/toriana04/fraudintel/ingestion"
	"github.com/toriana04/fraudintel/search"
	"github.com/toriana04/fraudintel/vectorize"
)

// Corpus source kinds.
const (
	SourceFile     = "file"
	SourceBlob     = "blob"
	SourcePostgres = "postgres"
)

// Config represents the complete fraudintel configuration.
type Config struct {
	Corpus     CorpusConfig    `yaml:"corpus"`
	Vectorizer string          `yaml:"vectorizer"`
	AI         AIConfig        `yaml:"ai"`
	Cache      CacheConfig     `yaml:"cache"`
	Server     ServerConfig    `yaml:"server"`
	Search     SearchConfig    `yaml:"search"`
	Ingestion  IngestionConfig `yaml:"ingestion"`
	Startup    StartupConfig   `yaml:"startup"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// CorpusConfig selects where the article table is read from.
type CorpusConfig struct {
	Source   string         `yaml:"source"`
	Path     string         `yaml:"path"`
	Blob     BlobConfig     `yaml:"blob"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// BlobConfig addresses a CSV or XLSX object in a storage bucket.
type BlobConfig struct {
	BaseURL string `yaml:"base_url"`
	Bucket  string `yaml:"bucket"`
	Object  string `yaml:"object"`
	APIKey  string `yaml:"api_key"`
}

// PostgresConfig addresses an article table.
type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// AIConfig configures the model provider. Insight features and the dense
// vectorizer are unavailable while Enabled is false.
type AIConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Provider       string  `yaml:"provider"`
	Host           string  `yaml:"host"`
	EmbeddingHost  string  `yaml:"embedding_host"`
	GeneratorHost  string  `yaml:"generator_host"`
	EmbeddingModel string  `yaml:"embedding_model"`
	GeneratorModel string  `yaml:"generator_model"`
	APIKey         string  `yaml:"api_key"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
}

// CacheConfig locates the embedding cache.
type CacheConfig struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

// VectorPath is the badger directory holding cached embeddings.
func (c CacheConfig) VectorPath() string {
	return filepath.Join(c.Dir, "vectors")
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SearchConfig tunes result assembly.
type SearchConfig struct {
	RelatedPool  int `yaml:"related_pool"`
	RelatedLimit int `yaml:"related_limit"`
	Suggestions  int `yaml:"suggestions"`
}

// IngestionConfig configures the article crawler.
type IngestionConfig struct {
	Seeds     ingestion.Seeds `yaml:"seeds"`
	Rate      float64         `yaml:"rate"`
	Burst     int             `yaml:"burst"`
	PoolSize  int             `yaml:"pool_size"`
	UserAgent string          `yaml:"user_agent"`
	Robots    bool            `yaml:"robots"`
	Output    string          `yaml:"output"`
	Upload    bool            `yaml:"upload"` // also upload Output to corpus.blob
}

// StartupConfig bounds corpus loading and encoding.
type StartupConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig sets the default log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration: a local CSV corpus, TF-IDF
// search and no model provider.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Corpus: CorpusConfig{
			Source: SourceFile,
			Path:   "fraud_articles.csv",
			Blob: BlobConfig{
				Bucket: "DTSC_project",
				Object: "csv/fraud_articles.csv",
			},
			Postgres: PostgresConfig{Table: "fraud_articles"},
		},
		Vectorizer: vectorize.NameTFIDF,
		AI: AIConfig{
			Provider:       aiDefaults.Provider,
			Host:           aiDefaults.EmbeddingHost,
			EmbeddingModel: aiDefaults.EmbeddingModel,
			GeneratorModel: aiDefaults.GeneratorModel,
			Temperature:    aiDefaults.Temperature,
			MaxTokens:      aiDefaults.MaxTokens,
		},
		Cache:  CacheConfig{Dir: defaultCacheDir()},
		Server: ServerConfig{Addr: ":8080"},
		Search: SearchConfig{
			RelatedPool:  search.DefaultRelatedPool,
			RelatedLimit: search.DefaultRelatedLimit,
			Suggestions:  search.DefaultSuggestions,
		},
		Ingestion: IngestionConfig{
			Seeds:     ingestion.DefaultSeeds(),
			Rate:      ingestion.DefaultRate,
			Burst:     ingestion.DefaultBurst,
			PoolSize:  4,
			UserAgent: ingestion.DefaultUserAgent,
			Robots:    true,
			Output:    "fraud_articles.csv",
		},
		Startup: StartupConfig{Timeout: 2 * time.Minute},
		Logging: LoggingConfig{Level: "info"},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "fraudintel")
	}
	return ".fraudintel-cache"
}

// SearchPaths are tried in order when no config file is named.
func SearchPaths() []string {
	paths := []string{"fraudintel.yaml", "fraudintel.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "fraudintel", "config.yaml"))
	}
	return paths
}

// LoadOption adjusts how Load finds its inputs.
type LoadOption func(*loader)

type loader struct {
	envFile string
	lookup  func(string) (string, bool)
}

// WithEnvFile reads variables from path instead of ./.env. An empty path
// disables the .env file.
func WithEnvFile(path string) LoadOption {
	return func(l *loader) {
		l.envFile = path
	}
}

// WithLookup replaces os.LookupEnv.
func WithLookup(lookup func(string) (string, bool)) LoadOption {
	return func(l *loader) {
		l.lookup = lookup
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// first existing entry of SearchPaths is used, if any. Variables from the
// .env file apply only where the environment leaves them unset.
func Load(path string, opts ...LoadOption) (*Config, error) {
	l := &loader{envFile: ".env", lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		for _, candidate := range SearchPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
		slog.Debug("loaded config file", "path", path)
	}

	lookup := l.lookup
	if l.envFile != "" {
		dotenv, err := godotenv.Read(l.envFile)
		switch {
		case err == nil:
			lookup = overlay(l.lookup, dotenv)
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("error reading env file %s: %w", l.envFile, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

// overlay consults primary first and falls back to values.
func overlay(primary func(string) (string, bool), values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("FRAUDINTEL_CORPUS_SOURCE", &c.Corpus.Source)
	str("FRAUDINTEL_CORPUS_PATH", &c.Corpus.Path)
	str("SUPABASE_URL", &c.Corpus.Blob.BaseURL)
	str("SUPABASE_KEY", &c.Corpus.Blob.APIKey)
	str("FRAUDINTEL_BLOB_BUCKET", &c.Corpus.Blob.Bucket)
	str("FRAUDINTEL_BLOB_OBJECT", &c.Corpus.Blob.Object)
	str("DATABASE_URL", &c.Corpus.Postgres.DSN)
	str("FRAUDINTEL_POSTGRES_TABLE", &c.Corpus.Postgres.Table)
	str("FRAUDINTEL_VECTORIZER", &c.Vectorizer)
	boolean("FRAUDINTEL_AI_ENABLED", &c.AI.Enabled)
	str("FRAUDINTEL_AI_PROVIDER", &c.AI.Provider)
	str("FRAUDINTEL_AI_HOST", &c.AI.Host)
	str("FRAUDINTEL_AI_EMBEDDING_MODEL", &c.AI.EmbeddingModel)
	str("FRAUDINTEL_AI_GENERATOR_MODEL", &c.AI.GeneratorModel)
	str("FRAUDINTEL_AI_API_KEY", &c.AI.APIKey)
	str("FRAUDINTEL_CACHE_DIR", &c.Cache.Dir)
	boolean("FRAUDINTEL_CACHE_IN_MEMORY", &c.Cache.InMemory)
	str("FRAUDINTEL_SERVER_ADDR", &c.Server.Addr)
	str("FRAUDINTEL_LOG_LEVEL", &c.Logging.Level)

	return errors.Join(errs...)
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	c.Corpus.Source = strings.ToLower(strings.TrimSpace(c.Corpus.Source))
	switch c.Corpus.Source {
	case SourceFile:
		if c.Corpus.Path == "" {
			return ErrMissingCorpusPath
		}
	case SourceBlob:
		b := c.Corpus.Blob
		if b.BaseURL == "" || b.Bucket == "" || b.Object == "" {
			return ErrMissingBlobSettings
		}
	case SourcePostgres:
		if c.Corpus.Postgres.DSN == "" {
			return ErrMissingDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Corpus.Source)
	}

	c.Vectorizer = strings.ToLower(strings.TrimSpace(c.Vectorizer))
	switch c.Vectorizer {
	case "":
		c.Vectorizer = vectorize.NameTFIDF
	case vectorize.NameTFIDF:
	case vectorize.NameDense:
		if !c.AI.Enabled {
			return ErrDenseNeedsAI
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVectorizer, c.Vectorizer)
	}

	if c.AI.Enabled {
		if err := c.AI.Config().Validate(); err != nil {
			return err
		}
	}

	if c.Search.RelatedPool < 1 || c.Search.RelatedLimit < 0 || c.Search.Suggestions < 1 {
		return ErrInvalidSearch
	}
	if c.Ingestion.Burst < 1 || c.Ingestion.PoolSize < 1 {
		return ErrInvalidIngestion
	}
	if c.Startup.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Config converts the section to a provider configuration. Host fills
// whichever of EmbeddingHost and GeneratorHost is empty.
func (a AIConfig) Config() *ai.Config {
	embeddingHost, generatorHost := a.EmbeddingHost, a.GeneratorHost
	if embeddingHost == "" {
		embeddingHost = a.Host
	}
	if generatorHost == "" {
		generatorHost = a.Host
	}
	return ai.NewConfig(
		ai.WithProvider(a.Provider),
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithGeneratorHost(generatorHost),
		ai.WithEmbeddingModel(a.EmbeddingModel),
		ai.WithGeneratorModel(a.GeneratorModel),
		ai.WithAPIKey(a.APIKey),
		ai.WithTemperature(a.Temperature),
		ai.WithMaxTokens(a.MaxTokens),
	)
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}
}
