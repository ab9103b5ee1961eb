// Package dynamo is the DynamoDB store backend used by the Lambda
// deployment. Sessions are keyed by chat_id; expenses by chat_id plus
// record_id.
package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"gastobot/internal/core"
	"gastobot/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Ensure interface conformance
var (
	_ store.SessionStore = (*Store)(nil)
	_ store.ExpenseStore = (*Store)(nil)
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type Store struct {
	client        API
	sessionTable  string
	expensesTable string
}

func NewStore(client API, sessionTable, expensesTable string) *Store {
	return &Store{
		client:        client,
		sessionTable:  sessionTable,
		expensesTable: expensesTable,
	}
}

// NewClient builds a DynamoDB client from the ambient AWS configuration.
func NewClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

type sessionItem struct {
	ChatID           int64  `dynamodbav:"chat_id"`
	SheetID          string `dynamodbav:"sheet_id"`
	SelectedCategory string `dynamodbav:"selected_category"`
}

type expenseItem struct {
	ChatID      int64  `dynamodbav:"chat_id"`
	RecordID    int64  `dynamodbav:"record_id"`
	UserName    string `dynamodbav:"user_name"`
	Category    string `dynamodbav:"category"`
	Date        string `dynamodbav:"date"`
	Description string `dynamodbav:"description"`
	Amount      string `dynamodbav:"amount"`
}

func chatKey(chatID int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"chat_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(chatID, 10)},
	}
}

// Get implements store.SessionStore.
func (s *Store) Get(ctx context.Context, chatID int64) (*core.Session, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.sessionTable),
		Key:       chatKey(chatID),
	})
	if err != nil {
		return nil, fmt.Errorf("get session from %s: %w", s.sessionTable, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item sessionItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &core.Session{
		ChatID:           item.ChatID,
		SheetID:          item.SheetID,
		SelectedCategory: item.SelectedCategory,
	}, nil
}

// Put implements store.SessionStore. PutItem replaces the whole record.
func (s *Store) Put(ctx context.Context, sess core.Session) error {
	item, err := attributevalue.MarshalMap(sessionItem{
		ChatID:           sess.ChatID,
		SheetID:          sess.SheetID,
		SelectedCategory: sess.SelectedCategory,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.sessionTable),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put session in %s: %w", s.sessionTable, err)
	}
	return nil
}

// SetCategory implements store.SessionStore. UpdateItem creates the record
// when the chat has none yet.
func (s *Store) SetCategory(ctx context.Context, chatID int64, category string) error {
	if _, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.sessionTable),
		Key:              chatKey(chatID),
		UpdateExpression: aws.String("SET selected_category = :val"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":val": &types.AttributeValueMemberS{Value: category},
		},
	}); err != nil {
		return fmt.Errorf("update session in %s: %w", s.sessionTable, err)
	}
	return nil
}

// Insert implements store.ExpenseStore.
func (s *Store) Insert(ctx context.Context, e core.Expense) error {
	item, err := attributevalue.MarshalMap(expenseItem{
		ChatID:      e.ChatID,
		RecordID:    e.RecordID,
		UserName:    e.UserName,
		Category:    e.Category,
		Date:        e.Date,
		Description: e.Description,
		Amount:      e.Amount,
	})
	if err != nil {
		return fmt.Errorf("marshal expense: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.expensesTable),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put expense in %s: %w", s.expensesTable, err)
	}
	return nil
}

// DeleteMatching implements store.ExpenseStore. The chat partition is
// queried and filtered locally; the first compound match is deleted.
func (s *Store) DeleteMatching(ctx context.Context, chatID int64, m core.ExpenseMatch) (bool, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.expensesTable),
		KeyConditionExpression: aws.String("chat_id = :chat_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":chat_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(chatID, 10)},
		},
	})
	if err != nil {
		return false, fmt.Errorf("query expenses in %s: %w", s.expensesTable, err)
	}

	var items []expenseItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return false, fmt.Errorf("unmarshal expenses: %w", err)
	}

	for _, item := range items {
		e := core.Expense{
			ChatID:      item.ChatID,
			RecordID:    item.RecordID,
			UserName:    item.UserName,
			Category:    item.Category,
			Date:        item.Date,
			Description: item.Description,
			Amount:      item.Amount,
		}
		if !m.Matches(e) {
			continue
		}
		key := chatKey(chatID)
		key["record_id"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(item.RecordID, 10)}
		if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.expensesTable),
			Key:       key,
		}); err != nil {
			return false, fmt.Errorf("delete expense from %s: %w", s.expensesTable, err)
		}
		slog.InfoContext(ctx, "Expense deleted from DynamoDB",
			"chat_id", chatID, "record_id", item.RecordID)
		return true, nil
	}
	return false, nil
}
