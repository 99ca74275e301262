package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-auth-nosql/internal/domain"
)

// DeliveryRepo stores the outbound email log.
type DeliveryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDeliveryRepo(client *dynamodb.Client, tableName string) *DeliveryRepo {
	return &DeliveryRepo{client: client, tableName: tableName}
}

func (r *DeliveryRepo) Put(ctx context.Context, d *domain.Delivery) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal delivery: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldDeliveryID},
	})
	return err
}
