package customers

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

// ErrDuplicate indicates the email is already registered.
var ErrDuplicate = errors.New("customer already exists")

// Store encapsulates operations on the customers table, keyed by email.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new customers Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new customer. Returns ErrDuplicate when the email exists.
func (s *Store) Create(ctx context.Context, c Customer) error {
	now := s.nowFunc()
	if c.DateJoined.IsZero() {
		c.DateJoined = now
	}
	c.UpdatedAt = now

	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(email)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicate
		}
		return fmt.Errorf("put customer: %w", err)
	}
	return nil
}

// Get fetches a customer by email. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, email string) (*Customer, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Customer
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	return &c, nil
}

// Save overwrites an existing customer record.
func (s *Store) Save(ctx context.Context, c Customer) error {
	c.UpdatedAt = s.nowFunc()
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put customer: %w", err)
	}
	return nil
}

// Delete removes a customer by email.
func (s *Store) Delete(ctx context.Context, email string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// List returns every customer; callers filter and paginate in memory.
func (s *Store) List(ctx context.Context) ([]Customer, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan customers: %w", err)
	}
	list := make([]Customer, 0, len(out.Items))
	for _, item := range out.Items {
		var c Customer
		if err := attributevalue.UnmarshalMap(item, &c); err != nil {
			return nil, fmt.Errorf("unmarshal customer: %w", err)
		}
		list = append(list, c)
	}
	return list, nil
}

// FindByVerificationToken looks up the holder of a hashed verification token.
func (s *Store) FindByVerificationToken(ctx context.Context, tokenHash string) (*Customer, error) {
	return s.findFirst(ctx, func(c *Customer) bool { return c.VerificationTokenHash == tokenHash })
}

// FindByResetToken looks up the holder of a hashed reset token.
func (s *Store) FindByResetToken(ctx context.Context, tokenHash string) (*Customer, error) {
	return s.findFirst(ctx, func(c *Customer) bool { return c.ResetTokenHash == tokenHash })
}

func (s *Store) findFirst(ctx context.Context, match func(*Customer) bool) (*Customer, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if match(&list[i]) {
			return &list[i], nil
		}
	}
	return nil, nil
}

func awsString(s string) *string { return &s }
