// Package bootstrap builds the adapters selected by configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"photomind/internal/config"
	"photomind/internal/database"
	"photomind/internal/domain"
	"photomind/internal/pkg/llm"
	"photomind/internal/pkg/objectstore"
	"photomind/internal/pkg/vision"
	"photomind/internal/repository"
)

// ImageStore is implemented by both metadata backends.
type ImageStore interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, img *domain.Image) error
	GetByID(ctx context.Context, id string) (*domain.Image, error)
	List(ctx context.Context) ([]domain.Image, error)
	ListByTagNames(ctx context.Context, names []string) ([]domain.Image, error)
	Delete(ctx context.Context, id string) error
}

type TagStore interface {
	EnsureSchema(ctx context.Context) error
	ListNames(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, names []string) error
}

// Adapters are the external collaborators, built once at startup and
// passed into the services.
type Adapters struct {
	Images  ImageStore
	Tags    TagStore
	Objects objectstore.Store
	Labeler vision.Labeler
	Model   llm.Client

	closers []func() error
}

// Close releases the database pool when the SQL backend is in use.
func (a *Adapters) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Adapters, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &Adapters{}

	if err := a.buildMetadata(cfg, awsCfg, log); err != nil {
		return nil, err
	}

	objects, err := NewObjectStore(cfg, awsCfg, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Objects = objects
	a.Labeler = NewLabeler(cfg, awsCfg, log)
	a.Model = NewLanguageModel(cfg, log)

	log.Info("Adapters ready",
		zap.String("metadata_store", cfg.Metadata.Backend),
		zap.String("object_store", cfg.Storage.Backend),
		zap.String("vision_provider", cfg.Vision.Provider),
		zap.String("llm_provider", cfg.LLM.Provider))
	return a, nil
}

// BuildMetadata builds only the image and tag stores.
func BuildMetadata(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Adapters, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &Adapters{}
	if err := a.buildMetadata(cfg, awsCfg, log); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadAWSConfig resolves region and credentials. Static keys win over the
// default chain; AWS_ENDPOINT points every client at a local emulator.
func LoadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.AWS.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
	}
	return awsCfg, nil
}

func (a *Adapters) buildMetadata(cfg *config.Config, awsCfg aws.Config, log *zap.Logger) error {
	switch cfg.Metadata.Backend {
	case config.MetadataStoreSQL:
		db, err := database.Connect(cfg.Metadata.DatabaseURL, log)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		a.closers = append(a.closers, sqlDB.Close)
		a.Images = repository.NewImageRepository(db)
		a.Tags = repository.NewTagRepository(db)
	default:
		client := dynamodb.NewFromConfig(awsCfg)
		a.Images = repository.NewDynamoImageRepository(client, cfg.Metadata.ImagesTable)
		a.Tags = repository.NewDynamoTagRepository(client, cfg.Metadata.TagsTable)
	}
	return nil
}

func NewObjectStore(cfg *config.Config, awsCfg aws.Config, log *zap.Logger) (objectstore.Store, error) {
	if cfg.Storage.Backend == config.ObjectStoreLocal {
		return objectstore.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.LocalURL, log)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Emulators such as MinIO and LocalStack serve path-style only.
		o.UsePathStyle = cfg.AWS.Endpoint != ""
	})
	return objectstore.NewS3Store(client, cfg.Storage.Bucket, cfg.AWS.Region, cfg.AWS.Endpoint, log), nil
}

func NewLabeler(cfg *config.Config, awsCfg aws.Config, log *zap.Logger) vision.Labeler {
	if cfg.Vision.Provider == config.VisionStub {
		return vision.NewStubLabeler()
	}
	return vision.NewRekognitionLabeler(rekognition.NewFromConfig(awsCfg), log)
}

func NewLanguageModel(cfg *config.Config, log *zap.Logger) llm.Client {
	if cfg.LLM.Provider == config.LLMStub {
		return llm.NewStubClient()
	}
	return llm.NewAnthropicClient(cfg.LLM.APIKey, cfg.LLM.Model, log)
}
