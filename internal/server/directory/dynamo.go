package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/flado/awareness/internal/common"
	"github.com/flado/awareness/internal/server/config"
	"github.com/flado/awareness/internal/server/models"
)

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewDynamoClient builds the DynamoDB client. In offline mode it points at a
// local endpoint with throwaway credentials, mirroring serverless-offline.
// Construction is idempotent and side-effect-free, so it is safe to repeat;
// callers build it once at cold start and reuse the handle read-only.
func NewDynamoClient(ctx context.Context, cfg *config.Config) (*dynamodb.Client, error) {
	if cfg.Offline {
		awscfg, err := loadDefaultAWSConfig(ctx,
			awsconfig.WithRegion("localhost"),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("local", "local", "")))
		if err != nil {
			return nil, fmt.Errorf("loading offline aws config: %w", err)
		}
		return dynamodb.NewFromConfig(awscfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}), nil
	}

	awscfg, err := loadDefaultAWSConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awscfg), nil
}

// DynamoRepository stores user records as items of one DynamoDB table.
type DynamoRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoRepository(client *dynamodb.Client, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func (r *DynamoRepository) Get(ctx context.Context, id string, includeSecret bool) (*models.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return nil, fmt.Errorf("getting user item: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrNotFound
	}

	user := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Item, user); err != nil {
		return nil, fmt.Errorf("unmarshaling user item: %w", err)
	}
	if !includeSecret {
		user.PasswordHash = ""
	}
	return user, nil
}

func (r *DynamoRepository) Create(ctx context.Context, user *models.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshaling user item: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("putting user item: %w", err)
	}
	return nil
}

func (r *DynamoRepository) SetActivated(ctx context.Context, id string, at time.Time) (*models.User, error) {
	ts, err := attributevalue.Marshal(at)
	if err != nil {
		return nil, fmt.Errorf("marshaling activation timestamp: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		UpdateExpression:          aws.String("SET activated = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": ts},
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("updating user item: %w", err)
	}

	user := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Attributes, user); err != nil {
		return nil, fmt.Errorf("unmarshaling updated user item: %w", err)
	}
	return user, nil
}
