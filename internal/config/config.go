package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ObjectStoreS3    = "s3"
	ObjectStoreLocal = "local"

	MetadataStoreDynamo = "dynamodb"
	MetadataStoreSQL    = "sql"

	VisionRekognition = "rekognition"
	VisionStub        = "stub"

	LLMAnthropic = "anthropic"
	LLMStub      = "stub"
)

type Config struct {
	AppEnv   string
	LogLevel string

	Server   ServerConfig
	AWS      AWSConfig
	Storage  StorageConfig
	Metadata MetadataConfig
	Vision   VisionConfig
	LLM      LLMConfig
	TagMatch TagMatchConfig

	// OwnerID is stamped on every upload; there is no per-user auth.
	OwnerID string
	// CallTimeout bounds each external call (store, labeler, model).
	CallTimeout time.Duration
}

type ServerConfig struct {
	Host               string
	Port               string
	MaxUploadBytes     int64
	CORSAllowedOrigins []string
	RestrictExtensions bool
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type StorageConfig struct {
	Backend  string
	Bucket   string
	LocalDir string
	LocalURL string
}

type MetadataConfig struct {
	Backend     string
	DatabaseURL string
	ImagesTable string
	TagsTable   string
}

type VisionConfig struct {
	Provider      string
	MaxLabels     int
	MinConfidence float64
}

type LLMConfig struct {
	Provider  string
	APIKey    string
	Model     string
	MaxTokens int
}

type TagMatchConfig struct {
	MaxAttempts int
	MaxResults  int
	Strict      bool
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:   strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Host:               v.GetString("SERVER_HOST"),
			Port:               v.GetString("SERVER_PORT"),
			MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RestrictExtensions: v.GetBool("UPLOAD_RESTRICT_EXTENSIONS"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			Endpoint:        v.GetString("AWS_ENDPOINT"),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(v.GetString("OBJECT_STORE")),
			Bucket:   v.GetString("S3_BUCKET"),
			LocalDir: v.GetString("LOCAL_STORE_DIR"),
			LocalURL: v.GetString("LOCAL_STORE_URL"),
		},
		Metadata: MetadataConfig{
			Backend:     strings.ToLower(v.GetString("METADATA_STORE")),
			DatabaseURL: v.GetString("DATABASE_URL"),
			ImagesTable: v.GetString("IMAGES_TABLE"),
			TagsTable:   v.GetString("TAGS_TABLE"),
		},
		Vision: VisionConfig{
			Provider:      strings.ToLower(v.GetString("VISION_PROVIDER")),
			MaxLabels:     v.GetInt("VISION_MAX_LABELS"),
			MinConfidence: v.GetFloat64("VISION_MIN_CONFIDENCE"),
		},
		LLM: LLMConfig{
			Provider:  strings.ToLower(v.GetString("LLM_PROVIDER")),
			APIKey:    v.GetString("ANTHROPIC_API_KEY"),
			Model:     v.GetString("ANTHROPIC_MODEL"),
			MaxTokens: v.GetInt("LLM_MAX_TOKENS"),
		},
		TagMatch: TagMatchConfig{
			MaxAttempts: v.GetInt("TAG_MATCH_MAX_ATTEMPTS"),
			MaxResults:  v.GetInt("TAG_MATCH_MAX_RESULTS"),
			Strict:      v.GetBool("TAG_MATCH_STRICT"),
		},
		OwnerID:     v.GetString("TEST_USER_ID"),
		CallTimeout: v.GetDuration("EXTERNAL_CALL_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("MAX_UPLOAD_BYTES", 16*1024*1024)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("UPLOAD_RESTRICT_EXTENSIONS", false)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("OBJECT_STORE", ObjectStoreS3)
	v.SetDefault("LOCAL_STORE_DIR", "./uploads")
	v.SetDefault("LOCAL_STORE_URL", "/uploads")
	v.SetDefault("METADATA_STORE", MetadataStoreDynamo)
	v.SetDefault("DATABASE_URL", "photomind.db")
	v.SetDefault("IMAGES_TABLE", "images")
	v.SetDefault("TAGS_TABLE", "tags")
	v.SetDefault("VISION_PROVIDER", VisionRekognition)
	v.SetDefault("VISION_MAX_LABELS", 10)
	v.SetDefault("VISION_MIN_CONFIDENCE", 75)
	v.SetDefault("LLM_PROVIDER", LLMAnthropic)
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-latest")
	v.SetDefault("LLM_MAX_TOKENS", 512)
	v.SetDefault("TAG_MATCH_MAX_ATTEMPTS", 2)
	v.SetDefault("TAG_MATCH_MAX_RESULTS", 3)
	v.SetDefault("TAG_MATCH_STRICT", false)
	v.SetDefault("TEST_USER_ID", "test-user")
	v.SetDefault("EXTERNAL_CALL_TIMEOUT", 30*time.Second)
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case ObjectStoreS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set when OBJECT_STORE=s3")
		}
	case ObjectStoreLocal:
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("LOCAL_STORE_DIR must not be empty")
		}
		if c.Vision.Provider == VisionRekognition {
			return fmt.Errorf("VISION_PROVIDER=rekognition needs OBJECT_STORE=s3")
		}
	default:
		return fmt.Errorf("OBJECT_STORE must be one of: s3, local")
	}

	switch c.Metadata.Backend {
	case MetadataStoreDynamo:
		if c.Metadata.ImagesTable == "" || c.Metadata.TagsTable == "" {
			return fmt.Errorf("IMAGES_TABLE and TAGS_TABLE must not be empty")
		}
	case MetadataStoreSQL:
		if c.Metadata.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when METADATA_STORE=sql")
		}
	default:
		return fmt.Errorf("METADATA_STORE must be one of: dynamodb, sql")
	}

	if c.Vision.Provider != VisionRekognition && c.Vision.Provider != VisionStub {
		return fmt.Errorf("VISION_PROVIDER must be one of: rekognition, stub")
	}
	if c.Vision.MaxLabels <= 0 {
		return fmt.Errorf("VISION_MAX_LABELS must be > 0")
	}
	if c.Vision.MinConfidence < 0 || c.Vision.MinConfidence > 100 {
		return fmt.Errorf("VISION_MIN_CONFIDENCE must be within 0..100")
	}

	switch c.LLM.Provider {
	case LLMAnthropic:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY must be set when LLM_PROVIDER=anthropic")
		}
	case LLMStub:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of: anthropic, stub")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be > 0")
	}
	if c.TagMatch.MaxAttempts < 1 {
		return fmt.Errorf("TAG_MATCH_MAX_ATTEMPTS must be >= 1")
	}
	if c.TagMatch.MaxResults < 1 {
		return fmt.Errorf("TAG_MATCH_MAX_RESULTS must be >= 1")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("EXTERNAL_CALL_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
