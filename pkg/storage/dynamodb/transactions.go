package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/finanzasapp/ledger/pkg/models"
	"github.com/finanzasapp/ledger/pkg/storage"
)

const userIDIndex = "user_id-index"

// ApplyTransaction atomically persists the user's new balance and appends the
// transaction record. Both writes go through a single TransactWriteItems call
// so a failure between them is impossible: either the balance and the log
// move together or neither does.
//
// The balance update is a compare-and-set against the balance and version the
// caller observed; any concurrent change cancels the whole unit.
func (s *Store) ApplyTransaction(ctx context.Context, user *models.User, newBalance int64, tx *models.Transaction) (*models.Transaction, error) {
	id, err := s.nextID(ctx, transactionIDCounter)
	if err != nil {
		return nil, err
	}
	tx.ID = id

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Update the user's balance.
				Update: &types.Update{
					TableName: aws.String(s.UsersTableName),
					Key: map[string]types.AttributeValue{
						"username": &types.AttributeValueMemberS{Value: user.Username},
					},
					UpdateExpression:    aws.String("SET balance = :new_balance, version = version + :inc"),
					ConditionExpression: aws.String("balance = :old_balance AND version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":new_balance": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newBalance)},
						":old_balance": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", user.Balance)},
						":version":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", user.Version)},
						":inc":         &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			{
				// Operation 2: Append the transaction record.
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var txc *types.TransactionCanceledException
		if errors.As(err, &txc) {
			for _, reason := range txc.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return nil, storage.ErrConflict
				}
			}
		}
		return nil, fmt.Errorf("failed to apply transaction: %w", err)
	}

	return tx, nil
}

// AppendTransaction appends a single transaction record, assigning its id.
func (s *Store) AppendTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	id, err := s.nextID(ctx, transactionIDCounter)
	if err != nil {
		return nil, err
	}
	tx.ID = id

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.TransactionsTableName),
		Item:                txAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to append transaction to DynamoDB: %w", err)
	}

	return tx, nil
}

// ListTransactionsByUserID retrieves all transactions for a user in creation
// order. The user_id-index GSI sorts on the numeric id, so ascending scan
// order is ascending id.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID int64) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(userIDIndex),
		KeyConditionExpression: aws.String("user_id = :user_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user_id": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", userID)},
		},
		ScanIndexForward: aws.Bool(true),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by user id: %w", err)
	}

	var transactions []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &transactions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return transactions, nil
}
