package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-auth-nosql/internal/domain"
)

// AccountRepo provides typed DynamoDB operations for the accounts table.
// The confirmation reset checkpoint is written with a conditional update, so the
// minimum resend interval holds across concurrent requests and instances.
type AccountRepo struct {
	client      *dynamodb.Client
	tableName   string
	minInterval time.Duration
}

func NewAccountRepo(client *dynamodb.Client, tableName string, minInterval time.Duration) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName, minInterval: minInterval}
}

// Ping checks that the accounts table is reachable.
func (r *AccountRepo) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)})
	return err
}

// Select resolves an account by id, falling back to email.
func (r *AccountRepo) Select(ctx context.Context, lookup domain.AccountLookup) (*domain.Account, error) {
	switch {
	case lookup.AccountID != nil && *lookup.AccountID != "":
		return r.Get(ctx, *lookup.AccountID)
	case lookup.Email != nil && *lookup.Email != "":
		return r.GetByEmail(ctx, *lookup.Email)
	default:
		return nil, fmt.Errorf("no account identifier: %w", domain.ErrNotFound)
	}
}

func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldAccountID, accountID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmail matches case-insensitively through the email_key index.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	out, err := r.client.Query(ctx, emailQuery(r.tableName, email))
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func emailQuery(tableName, email string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:                 aws.String(tableName),
		IndexName:                 aws.String(indexEmailKey),
		KeyConditionExpression:    aws.String("#k = :v"),
		ExpressionAttributeNames:  map[string]string{"#k": fieldEmailKey},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: domain.NormalizeEmail(email)}},
		Limit:                     aws.Int32(1),
	}
}

// UpdateConfirmationResetTimeout stamps the account with the resend time. The write
// only succeeds if no resend was recorded within minInterval of at.
func (r *AccountRepo) UpdateConfirmationResetTimeout(ctx context.Context, account *domain.Account, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldConfirmationResetTimeout: at.Unix(),
		fieldUpdatedAt:                at,
	})
	if err != nil {
		return err
	}
	ue.Names["#id"] = fieldAccountID
	ue.Names["#crt"] = fieldConfirmationResetTimeout
	ue.Values[":threshold"] = &types.AttributeValueMemberN{
		Value: strconv.FormatInt(at.Add(-r.minInterval).Unix(), 10),
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldAccountID, account.AccountID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String(checkpointCondition),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("account %s: %w", account.AccountID, domain.ErrThrottled)
	}
	return err
}

const checkpointCondition = "attribute_exists(#id) AND (attribute_not_exists(#crt) OR #crt <= :threshold)"
