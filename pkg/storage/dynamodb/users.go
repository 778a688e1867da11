package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/finanzasapp/ledger/pkg/models"
	"github.com/finanzasapp/ledger/pkg/storage"
)

const idIndex = "id-index"

// CreateUser inserts a new user record, allocating its id from the counter
// table. The conditional put on the username key enforces uniqueness
// atomically, so a concurrent registration of the same name cannot slip
// through the prior read.
func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	id, err := s.nextID(ctx, userIDCounter)
	if err != nil {
		return nil, err
	}

	user.ID = id
	user.Version = 1
	user.CreatedAt = time.Now().UTC()

	userAV, err := attributevalue.MarshalMap(user)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.UsersTableName),
		Item:                userAV,
		ConditionExpression: aws.String("attribute_not_exists(username)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, storage.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user in DynamoDB: %w", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user from DynamoDB by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal username key: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.UsersTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrUserNotFound
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(result.Item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// GetUser retrieves a user by id via the id-index GSI.
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.UsersTableName),
		IndexName:              aws.String(idIndex),
		KeyConditionExpression: aws.String("id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", userID)},
		},
		Limit: aws.Int32(1),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, storage.ErrUserNotFound
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(result.Items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// UpdateBalance overwrites a user's balance, bumping the version attribute.
func (s *Store) UpdateBalance(ctx context.Context, userID int64, newBalance int64) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.UsersTableName),
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: user.Username},
		},
		UpdateExpression:    aws.String("SET balance = :balance, version = version + :inc"),
		ConditionExpression: aws.String("attribute_exists(username) AND version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":balance": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newBalance)},
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", user.Version)},
			":inc":     &types.AttributeValueMemberN{Value: "1"},
		},
	}

	_, err = s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrConflict
		}
		return fmt.Errorf("failed to update balance in DynamoDB: %w", err)
	}

	return nil
}
