package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/finanzasapp/ledger/pkg/models"
	"github.com/finanzasapp/ledger/pkg/storage"
	"github.com/finanzasapp/ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApplyTransaction(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", Balance: 1000, Version: 1}
	newTx := func() *models.Transaction {
		return &models.Transaction{
			UserID:    1,
			Type:      models.DEPOSIT,
			Amount:    500,
			Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
			Status:    models.COMPLETED,
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(counterOutput("3"), nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			// One conditioned balance update plus one conditional put, in a
			// single request.
			return len(input.TransactItems) == 2 &&
				input.TransactItems[0].Update != nil &&
				input.TransactItems[1].Put != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		store := New(mockClient, "users", "transactions", "counters")
		recorded, err := store.ApplyTransaction(context.Background(), user, 1500, newTx())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), recorded.ID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(counterOutput("4"), nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("ConditionalCheckFailed")},
				{Code: aws.String("None")},
			},
		})

		store := New(mockClient, "users", "transactions", "counters")
		_, err := store.ApplyTransaction(context.Background(), user, 1500, newTx())

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(counterOutput("5"), nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "users", "transactions", "counters")
		_, err := store.ApplyTransaction(context.Background(), user, 1500, newTx())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to apply transaction")
		mockClient.AssertExpectations(t)
	})
}

func TestAppendTransaction(t *testing.T) {
	newTx := func() *models.Transaction {
		return &models.Transaction{
			UserID:    1,
			Type:      models.WITHDRAWAL,
			Amount:    200,
			Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
			Status:    models.COMPLETED,
		}
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(counterOutput("11"), nil)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "users", "transactions", "counters")
		recorded, err := store.AppendTransaction(context.Background(), newTx())

		assert.NoError(t, err)
		assert.Equal(t, int64(11), recorded.ID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(counterOutput("12"), nil)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "users", "transactions", "counters")
		_, err := store.AppendTransaction(context.Background(), newTx())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to append transaction to DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListTransactionsByUserID(t *testing.T) {
	transactions := []models.Transaction{
		{ID: 1, UserID: 1, Type: models.DEPOSIT, Amount: 500, Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), Status: models.COMPLETED},
		{ID: 2, UserID: 1, Type: models.WITHDRAWAL, Amount: 200, Timestamp: time.Date(2026, 8, 31, 12, 1, 0, 0, time.UTC), Status: models.COMPLETED},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		var txsAV []map[string]types.AttributeValue
		for _, tx := range transactions {
			av, err := attributevalue.MarshalMap(tx)
			require.NoError(t, err)
			txsAV = append(txsAV, av)
		}
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			// Ascending id scan so the listing is in creation order.
			return input.ScanIndexForward != nil && *input.ScanIndexForward
		})).Return(&dynamodb.QueryOutput{Items: txsAV}, nil)

		store := New(mockClient, "users", "transactions", "counters")
		retrieved, err := store.ListTransactionsByUserID(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, transactions, retrieved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Empty", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		store := New(mockClient, "users", "transactions", "counters")
		retrieved, err := store.ListTransactionsByUserID(context.Background(), 1)

		assert.NoError(t, err)
		assert.NotNil(t, retrieved)
		assert.Empty(t, retrieved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "users", "transactions", "counters")
		_, err := store.ListTransactionsByUserID(context.Background(), 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query transactions by user id")
		mockClient.AssertExpectations(t)
	})
}
