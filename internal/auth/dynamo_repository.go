package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/acestone/renovation-leads/pkg/logging"
)

type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type userItem struct {
	ID           string `dynamodbav:"id"`
	Username     string `dynamodbav:"username"`
	PasswordHash string `dynamodbav:"passwordHash"`
}

// DynamoUserRepository stores users in a DynamoDB table keyed by id. The
// username lookup is a filtered scan, which is fine for a single-admin table.
type DynamoUserRepository struct {
	client dynamoAPI
	table  string
	logger *logging.Logger
}

var _ UserRepository = (*DynamoUserRepository)(nil)

// NewDynamoUserRepository builds a repository backed by the provided client.
func NewDynamoUserRepository(client dynamoAPI, table string, logger *logging.Logger) *DynamoUserRepository {
	if client == nil {
		panic("auth: dynamodb client required")
	}
	if table == "" {
		panic("auth: table name required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoUserRepository{client: client, table: table, logger: logger}
}

// Create inserts a user after a best-effort uniqueness check on username.
func (r *DynamoUserRepository) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	if _, err := r.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	item, err := attributevalue.MarshalMap(userItem{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("auth: marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("auth: put user: %w", err)
	}
	return user, nil
}

// GetByID fetches a user by primary key.
func (r *DynamoUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("auth: get user %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrUserNotFound
	}
	var it userItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("auth: unmarshal user %s: %w", id, err)
	}
	return &User{ID: it.ID, Username: it.Username, PasswordHash: it.PasswordHash}, nil
}

// GetByUsername scans for an exact, case-sensitive username match.
func (r *DynamoUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("username = :username"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":username": &types.AttributeValueMemberS{Value: username},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("auth: scan users: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrUserNotFound
	}
	var it userItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return nil, fmt.Errorf("auth: unmarshal user %s: %w", username, err)
	}
	return &User{ID: it.ID, Username: it.Username, PasswordHash: it.PasswordHash}, nil
}
