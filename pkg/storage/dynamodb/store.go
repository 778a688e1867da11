package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/finanzasapp/ledger/pkg/storage"
)

// Store implements the storage.Storage interface using AWS DynamoDB.
//
// Users are keyed by username so the conditional put on registration enforces
// username uniqueness at the storage layer. Lookups by id go through the
// id-index GSI. Transactions are keyed by id with a user_id-index GSI whose
// sort key (id) yields creation-ordered listings. Integer ids come from an
// atomic counter table.
type Store struct {
	Client                DynamoDBAPI
	UsersTableName        string
	TransactionsTableName string
	CountersTableName     string
}

// New creates a new Store.
func New(client DynamoDBAPI, usersTable, transactionsTable, countersTable string) *Store {
	return &Store{
		Client:                client,
		UsersTableName:        usersTable,
		TransactionsTableName: transactionsTable,
		CountersTableName:     countersTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// Counter names for id allocation.
const (
	userIDCounter        = "users"
	transactionIDCounter = "transactions"
)

// nextID atomically increments the named counter and returns its new value.
func (s *Store) nextID(ctx context.Context, name string) (int64, error) {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.CountersTableName),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: name},
		},
		UpdateExpression: aws.String("ADD v :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s counter: %w", name, err)
	}

	value, ok := result.Attributes["v"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("unexpected counter attribute for %s", name)
	}

	id, err := strconv.ParseInt(value.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s counter value: %w", name, err)
	}

	return id, nil
}
