package users

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
var ErrDuplicate = errors.New("user already exists")

// Store encapsulates operations on the users table. The table is keyed by
// email, so the uniqueness invariant is a conditional put.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new users Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new user. Returns ErrDuplicate when the email exists.
func (s *Store) Create(ctx context.Context, u User) error {
	now := s.nowFunc()
	if u.DateJoined.IsZero() {
		u.DateJoined = now
	}
	u.UpdatedAt = now

	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
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
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// Get fetches a user by email. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, email string) (*User, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var u User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}

// Save overwrites an existing user record.
func (s *Store) Save(ctx context.Context, u User) error {
	u.UpdatedAt = s.nowFunc()
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// Delete removes a user by email.
func (s *Store) Delete(ctx context.Context, email string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// List returns every user. Search and pagination happen in memory; the table
// is staff-sized.
func (s *Store) List(ctx context.Context) ([]User, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	list := make([]User, 0, len(out.Items))
	for _, item := range out.Items {
		var u User
		if err := attributevalue.UnmarshalMap(item, &u); err != nil {
			return nil, fmt.Errorf("unmarshal user: %w", err)
		}
		list = append(list, u)
	}
	return list, nil
}

// FindByUsername returns the user with the given username, or (nil, nil).
func (s *Store) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findFirst(ctx, func(u *User) bool { return u.Username == username })
}

// FindByVerificationToken looks up the holder of a hashed verification token.
func (s *Store) FindByVerificationToken(ctx context.Context, tokenHash string) (*User, error) {
	return s.findFirst(ctx, func(u *User) bool { return u.VerificationTokenHash == tokenHash })
}

// FindByResetToken looks up the holder of a hashed reset token.
func (s *Store) FindByResetToken(ctx context.Context, tokenHash string) (*User, error) {
	return s.findFirst(ctx, func(u *User) bool { return u.ResetTokenHash == tokenHash })
}

func (s *Store) findFirst(ctx context.Context, match func(*User) bool) (*User, error) {
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
