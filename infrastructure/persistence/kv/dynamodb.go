package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/coltranesx/Project-Area/application/ports"
	"go.uber.org/zap"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// recordSK is the sort key of every record; one key maps to one item.
const recordSK = "VALUE"

// record is the item layout. PK holds the joined key.
type record struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Value     []byte `dynamodbav:"Value"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// DynamoDB is a KeyValueStore backed by a DynamoDB table with a PK/SK
// composite key.
type DynamoDB struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
	now       func() time.Time
}

// NewDynamoDB creates a DynamoDB-backed store
func NewDynamoDB(client DynamoDBAPI, tableName string, logger *zap.Logger) *DynamoDB {
	return &DynamoDB{
		client:    client,
		tableName: tableName,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the value stored under key
func (d *DynamoDB) Get(ctx context.Context, key ports.Key) ([]byte, error) {
	proj := expression.NamesList(expression.Name("Value"))
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build projection: %w", err)
	}

	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(d.tableName),
		Key:                      itemKey(key),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", key, err)
	}
	if len(out.Item) == 0 {
		return nil, ports.ErrNotFound
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item %s: %w", key, err)
	}
	return rec.Value, nil
}

// Set stores value under key, overwriting any previous value
func (d *DynamoDB) Set(ctx context.Context, key ports.Key, value []byte) error {
	item, err := attributevalue.MarshalMap(record{
		PK:        key.String(),
		SK:        recordSK,
		Value:     value,
		UpdatedAt: d.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal item %s: %w", key, err)
	}

	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put item %s: %w", key, err)
	}

	d.logger.Debug("Item stored",
		zap.String("key", key.String()),
		zap.Int("bytes", len(value)),
	)
	return nil
}

// Delete removes key. Missing keys are not an error.
func (d *DynamoDB) Delete(ctx context.Context, key ports.Key) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       itemKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item %s: %w", key, err)
	}
	return nil
}

// Close implements ports.KeyValueStore. The SDK client holds no resources.
func (d *DynamoDB) Close() error {
	return nil
}

func itemKey(key ports.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key.String()},
		"SK": &types.AttributeValueMemberS{Value: recordSK},
	}
}
