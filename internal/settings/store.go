package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx"
)

var (
	// ErrNotFound indicates no settings record has been created yet.
	ErrNotFound = errors.New("settings not found")
	// ErrExists indicates a second create attempt on the singleton.
	ErrExists = errors.New("settings already exist")
)

// Store encapsulates the singleton settings record.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new settings Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create writes the singleton record. Returns ErrExists on a second attempt.
func (s *Store) Create(ctx context.Context, cfg Settings) error {
	now := s.nowFunc()
	cfg.SettingsID = SingletonID
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	item, err := attributevalue.MarshalMap(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(settings_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrExists
		}
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}

// Get fetches the singleton record. Returns ErrNotFound when absent.
func (s *Store) Get(ctx context.Context) (*Settings, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"settings_id": &types.AttributeValueMemberS{Value: SingletonID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var cfg Settings
	if err := attributevalue.UnmarshalMap(out.Item, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &cfg, nil
}

// Save overwrites the singleton record. The record must already exist.
func (s *Store) Save(ctx context.Context, cfg Settings) error {
	cfg.SettingsID = SingletonID
	cfg.UpdatedAt = s.nowFunc()

	item, err := attributevalue.MarshalMap(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_exists(settings_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}

// Delete removes the singleton record. Returns ErrNotFound when absent.
func (s *Store) Delete(ctx context.Context) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"settings_id": &types.AttributeValueMemberS{Value: SingletonID},
		},
		ConditionExpression: awsString("attribute_exists(settings_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
