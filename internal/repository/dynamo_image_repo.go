package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"photomind/internal/domain"
)

// dynamoImage holds the scalar attributes of an image item. Tags are encoded
// by hand so confidences stay DynamoDB numbers.
type dynamoImage struct {
	ID           string `dynamodbav:"id"`
	StorageURL   string `dynamodbav:"s3Url"`
	UserID       string `dynamodbav:"userId"`
	DateModified string `dynamodbav:"dateModified,omitempty"`
	Filename     string `dynamodbav:"filename"`
}

type DynamoImageRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoImageRepository(client DynamoAPI, table string) *DynamoImageRepository {
	return &DynamoImageRepository{client: client, table: table}
}

func (r *DynamoImageRepository) EnsureSchema(ctx context.Context) error {
	return ensureTable(ctx, r.client, r.table, "id")
}

func (r *DynamoImageRepository) Create(ctx context.Context, img *domain.Image) error {
	item, err := encodeImage(img)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	var conflict *types.ConditionalCheckFailedException
	if errors.As(err, &conflict) {
		return domain.ErrDuplicateImage
	}
	return err
}

func (r *DynamoImageRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrImageNotFound
	}
	return decodeImage(out.Item)
}

func (r *DynamoImageRepository) List(ctx context.Context) ([]domain.Image, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.table)})
	if err != nil {
		return nil, err
	}
	images := make([]domain.Image, 0, len(items))
	for _, item := range items {
		img, err := decodeImage(item)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}

// ListByTagNames scans the table and keeps images carrying any of names.
// Tags are a nested list, so the match is done after the scan.
func (r *DynamoImageRepository) ListByTagNames(ctx context.Context, names []string) ([]domain.Image, error) {
	wanted := lowerAll(names)
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Image, 0)
	for _, img := range all {
		for _, n := range wanted {
			if img.HasTag(n) {
				out = append(out, img)
				break
			}
		}
	}
	return out, nil
}

func (r *DynamoImageRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	var missing *types.ConditionalCheckFailedException
	if errors.As(err, &missing) {
		return domain.ErrImageNotFound
	}
	return err
}

func encodeImage(img *domain.Image) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(dynamoImage{
		ID:           img.ID,
		StorageURL:   img.StorageURL,
		UserID:       img.UserID,
		DateModified: img.DateModified,
		Filename:     img.Filename,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal image: %w", err)
	}

	tags := make([]types.AttributeValue, 0, len(img.Tags))
	for _, t := range img.Tags {
		tags = append(tags, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"name":       &types.AttributeValueMemberS{Value: t.Name},
			"confidence": &types.AttributeValueMemberN{Value: decimal.NewFromFloat(t.Confidence).String()},
		}})
	}
	item["tags"] = &types.AttributeValueMemberL{Value: tags}
	return item, nil
}

func decodeImage(item map[string]types.AttributeValue) (*domain.Image, error) {
	var raw dynamoImage
	if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal image: %w", err)
	}
	img := &domain.Image{
		ID:           raw.ID,
		StorageURL:   raw.StorageURL,
		UserID:       raw.UserID,
		DateModified: raw.DateModified,
		Filename:     raw.Filename,
		Tags:         []domain.Tag{},
	}

	list, ok := item["tags"].(*types.AttributeValueMemberL)
	if !ok {
		return img, nil
	}
	for _, entry := range list.Value {
		m, ok := entry.(*types.AttributeValueMemberM)
		if !ok {
			continue
		}
		tag := domain.Tag{}
		if name, ok := m.Value["name"].(*types.AttributeValueMemberS); ok {
			tag.Name = name.Value
		}
		conf, err := confidenceValue(m.Value["confidence"])
		if err != nil {
			return nil, fmt.Errorf("image %s tag %q: %w", raw.ID, tag.Name, err)
		}
		tag.Confidence = conf
		img.Tags = append(img.Tags, tag)
	}
	return img, nil
}

// confidenceValue converts a DynamoDB number (or legacy string) to float64.
func confidenceValue(av types.AttributeValue) (float64, error) {
	var text string
	switch v := av.(type) {
	case nil:
		return 0, nil
	case *types.AttributeValueMemberN:
		text = v.Value
	case *types.AttributeValueMemberS:
		text = v.Value
	default:
		return 0, fmt.Errorf("unexpected confidence attribute %T", av)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
