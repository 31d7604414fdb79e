package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoCatalogTag struct {
	Name      string `dynamodbav:"name"`
	CreatedAt string `dynamodbav:"createdAt,omitempty"`
}

type DynamoTagRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoTagRepository(client DynamoAPI, table string) *DynamoTagRepository {
	return &DynamoTagRepository{client: client, table: table}
}

func (r *DynamoTagRepository) EnsureSchema(ctx context.Context) error {
	return ensureTable(ctx, r.client, r.table, "name")
}

func (r *DynamoTagRepository) ListNames(ctx context.Context) ([]string, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:            aws.String(r.table),
		ProjectionExpression: aws.String("#n"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
	})
	if err != nil {
		return nil, err
	}

	var rows []dynamoCatalogTag
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// Upsert puts one item per new name. Items that already exist are skipped by
// the condition expression.
func (r *DynamoTagRepository) Upsert(ctx context.Context, names []string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}

		item, err := attributevalue.MarshalMap(dynamoCatalogTag{Name: n, CreatedAt: now})
		if err != nil {
			return fmt.Errorf("marshal tag: %w", err)
		}
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(r.table),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(#n)"),
			ExpressionAttributeNames: map[string]string{
				"#n": "name",
			},
		})
		if err != nil && !isConditionFailed(err) {
			return fmt.Errorf("put tag %q: %w", n, err)
		}
	}
	return nil
}

func isConditionFailed(err error) bool {
	var cf *types.ConditionalCheckFailedException
	return errors.As(err, &cf)
}
