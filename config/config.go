package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"blogpilot/logger"
)

const (
	envFile    = ".env"
	configFile = "config.yaml"
)

// AppConfig holds tunables from config.yaml plus credentials from the
// environment.
type AppConfig struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Topics   TopicsConfig   `yaml:"topics"`
	News     NewsConfig     `yaml:"news"`
	Images   ImagesConfig   `yaml:"images"`
	Storage  StorageConfig  `yaml:"storage"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Hashnode HashnodeConfig `yaml:"hashnode"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type GeminiConfig struct {
	APIKey          string  `yaml:"-"`
	Model           string  `yaml:"model"`
	ImageModel      string  `yaml:"image_model"`
	Temperature     float32 `yaml:"temperature"`
	MaxTokensTopics int32   `yaml:"max_tokens_topics"`
	MaxTokensBlog   int32   `yaml:"max_tokens_blog"`
}

type TopicsConfig struct {
	PerBatch            int     `yaml:"per_batch"`
	MaxAttempts         int     `yaml:"max_attempts"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	LookbackDays        int     `yaml:"lookback_days"`
	AvoidHintSize       int     `yaml:"avoid_hint_size"`
}

type NewsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	FeedURL      string `yaml:"feed_url"` // %s is replaced with the category name
	MaxHeadlines int    `yaml:"max_headlines"`
}

type ImagesConfig struct {
	Enabled bool `yaml:"enabled"`
}

type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	Bucket        string `yaml:"bucket"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"`
	AccessKey     string `yaml:"-"`
	SecretKey     string `yaml:"-"`
}

type HashnodeConfig struct {
	APIURL        string `yaml:"api_url"`
	Token         string `yaml:"-"`
	PublicationID string `yaml:"-"`
}

// Load reads config.yaml and the environment, fills defaults and validates
// required credentials. Missing credentials are configuration errors and
// fatal at startup.
func Load() (*AppConfig, error) {
	base := basePath()
	_ = godotenv.Load(filepath.Join(base, envFile))

	data, err := os.ReadFile(filepath.Join(base, configFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", configFile, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "blogpilot"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.ImageModel == "" {
		c.Gemini.ImageModel = "imagen-3.0-generate-001"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.7
	}
	if c.Gemini.MaxTokensTopics == 0 {
		c.Gemini.MaxTokensTopics = 4000
	}
	if c.Gemini.MaxTokensBlog == 0 {
		c.Gemini.MaxTokensBlog = 8000
	}
	if c.Topics.PerBatch == 0 {
		c.Topics.PerBatch = 7
	}
	if c.Topics.MaxAttempts == 0 {
		c.Topics.MaxAttempts = 3
	}
	if c.Topics.SimilarityThreshold == 0 {
		c.Topics.SimilarityThreshold = 0.7
	}
	if c.Topics.LookbackDays == 0 {
		c.Topics.LookbackDays = 180
	}
	if c.Topics.AvoidHintSize == 0 {
		c.Topics.AvoidHintSize = 20
	}
	if c.News.FeedURL == "" {
		c.News.FeedURL = "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en"
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 10
	}
	if c.Hashnode.APIURL == "" {
		c.Hashnode.APIURL = "https://gql.hashnode.com/"
	}
	if c.Schedule.TopicGeneration == "" {
		c.Schedule.TopicGeneration = "0 6 * * MON"
	}
	if c.Schedule.BlogPublishing == "" {
		c.Schedule.BlogPublishing = "0 9 * * *"
	}
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("MONGODB_DB_NAME"); v != "" {
		c.Mongo.Database = v
	}
	c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	c.Hashnode.Token = os.Getenv("HASHNODE_API_TOKEN")
	c.Hashnode.PublicationID = os.Getenv("HASHNODE_PUBLICATION_ID")
	c.Storage.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	c.Storage.SecretKey = os.Getenv("MINIO_SECRET_KEY")
}

func (c *AppConfig) validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY must be set")
	}
	if c.Hashnode.Token == "" {
		return fmt.Errorf("HASHNODE_API_TOKEN must be set")
	}
	if c.Hashnode.PublicationID == "" {
		return fmt.Errorf("HASHNODE_PUBLICATION_ID must be set")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGODB_URI must be set")
	}

	// The image branch is best-effort: missing storage credentials disable
	// it instead of failing startup.
	if c.Images.Enabled && !c.Storage.Configured() {
		logger.Log.Warn("images.enabled is set but storage credentials are missing, disabling cover images")
		c.Images.Enabled = false
	}
	return nil
}

type ScheduleConfig struct {
	TopicGeneration string `yaml:"topic_generation"` // cron spec, weekly
	BlogPublishing  string `yaml:"blog_publishing"`  // cron spec, daily
}

// Configured reports whether object storage has everything needed to upload.
func (s StorageConfig) Configured() bool {
	return s.Endpoint != "" && s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

// basePath walks up from the working directory until it finds config.yaml,
// so the binary can run from any subdirectory of the checkout.
func basePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, configFile)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
