package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acestone/renovation-leads/pkg/logging"
)

type mockUserDynamo struct {
	putInput  *dynamodb.PutItemInput
	putErr    error
	getOutput *dynamodb.GetItemOutput
	scanItems []map[string]types.AttributeValue
	scanErr   error
}

func (m *mockUserDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putInput = params
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockUserDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getOutput != nil {
		return m.getOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockUserDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	return &dynamodb.ScanOutput{Items: m.scanItems}, nil
}

func adminScanItem() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":           &types.AttributeValueMemberS{Value: "user-1"},
		"username":     &types.AttributeValueMemberS{Value: "admin"},
		"passwordHash": &types.AttributeValueMemberS{Value: "$2a$10$hash"},
	}
}

func TestDynamoUserCreate(t *testing.T) {
	mock := &mockUserDynamo{}
	repo := NewDynamoUserRepository(mock, "users", logging.New("error"))

	user, err := repo.Create(context.Background(), "admin", "$2a$10$hash")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "admin", user.Username)

	require.NotNil(t, mock.putInput)
	assert.Equal(t, "users", *mock.putInput.TableName)
	assert.Equal(t, "attribute_not_exists(id)", *mock.putInput.ConditionExpression)
}

func TestDynamoUserCreateDuplicateUsername(t *testing.T) {
	mock := &mockUserDynamo{scanItems: []map[string]types.AttributeValue{adminScanItem()}}
	repo := NewDynamoUserRepository(mock, "users", logging.New("error"))

	_, err := repo.Create(context.Background(), "admin", "hash")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Nil(t, mock.putInput, "no put should happen for a taken username")
}

func TestDynamoUserGetByUsername(t *testing.T) {
	mock := &mockUserDynamo{scanItems: []map[string]types.AttributeValue{adminScanItem()}}
	repo := NewDynamoUserRepository(mock, "users", logging.New("error"))

	user, err := repo.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
}

func TestDynamoUserGetByUsernameMiss(t *testing.T) {
	repo := NewDynamoUserRepository(&mockUserDynamo{}, "users", logging.New("error"))

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDynamoUserGetByIDMiss(t *testing.T) {
	repo := NewDynamoUserRepository(&mockUserDynamo{}, "users", logging.New("error"))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDynamoUserScanErrorPropagates(t *testing.T) {
	mock := &mockUserDynamo{scanErr: errors.New("throttled")}
	repo := NewDynamoUserRepository(mock, "users", logging.New("error"))

	_, err := repo.GetByUsername(context.Background(), "admin")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
