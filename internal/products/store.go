package products

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
	// ErrNotFound indicates the SKU does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateSKU indicates a create or re-key collided with an existing SKU.
	ErrDuplicateSKU = errors.New("sku already exists")
	// ErrOutOfStock indicates a stock decrement would drive stock below zero.
	ErrOutOfStock = errors.New("insufficient stock")
	// ErrAlreadyReviewed indicates the customer already reviewed this product.
	ErrAlreadyReviewed = errors.New("product already reviewed by this customer")
	// ErrConcurrentUpdate indicates an optimistic save lost the race.
	ErrConcurrentUpdate = errors.New("product modified concurrently")
)

// Store encapsulates operations on the products table, keyed by SKU.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new products Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// TableName exposes the bound table for cross-table transactions (the order
// store writes stock updates into this table).
func (s *Store) TableName() string { return s.tableName }

// Create persists a new product. Returns ErrDuplicateSKU when the SKU exists.
func (s *Store) Create(ctx context.Context, p Product) error {
	now := s.nowFunc()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Recalculate(now)

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(sku)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("put product: %w", err)
	}
	return nil
}

// Get fetches a product by SKU. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, sku string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"sku": &types.AttributeValueMemberS{Value: sku},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Save overwrites a product, refreshing derived fields.
func (s *Store) Save(ctx context.Context, p Product) error {
	now := s.nowFunc()
	p.UpdatedAt = now
	p.Recalculate(now)

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put product: %w", err)
	}
	return nil
}

// saveIf overwrites a product only if its stored updated_at still matches
// expected (optimistic concurrency for read-modify-write paths).
func (s *Store) saveIf(ctx context.Context, p Product, expected time.Time) error {
	now := s.nowFunc()
	p.UpdatedAt = now
	p.Recalculate(now)

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	expectedAttr, err := attributevalue.Marshal(expected)
	if err != nil {
		return fmt.Errorf("marshal expected timestamp: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:                 &s.tableName,
		Item:                      item,
		ConditionExpression:       awsString("updated_at = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":expected": expectedAttr},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrConcurrentUpdate
		}
		return fmt.Errorf("put product: %w", err)
	}
	return nil
}

// Rekey moves a product to a new SKU in one transaction: conditional put of
// the new key plus delete of the old one.
func (s *Store) Rekey(ctx context.Context, oldSKU string, p Product) error {
	now := s.nowFunc()
	p.UpdatedAt = now
	p.Recalculate(now)

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.tableName,
					Item:                item,
					ConditionExpression: awsString("attribute_not_exists(sku)"),
				},
			},
			{
				Delete: &types.Delete{
					TableName: &s.tableName,
					Key: map[string]types.AttributeValue{
						"sku": &types.AttributeValueMemberS{Value: oldSKU},
					},
				},
			},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("transact rekey: %w", err)
	}
	return nil
}

// Delete removes a product by SKU.
func (s *Store) Delete(ctx context.Context, sku string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"sku": &types.AttributeValueMemberS{Value: sku},
		},
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List returns every product; the catalog filters and paginates in memory.
func (s *Store) List(ctx context.Context) ([]Product, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	list := make([]Product, 0, len(out.Items))
	for _, item := range out.Items {
		var p Product
		if err := attributevalue.UnmarshalMap(item, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		list = append(list, p)
	}
	return list, nil
}

// AddReview appends a review, enforcing one review per (product, customer),
// and refreshes the rating aggregate. The write is optimistic: it fails with
// ErrConcurrentUpdate if the product changed between read and write.
func (s *Store) AddReview(ctx context.Context, sku string, review Review) (*Product, error) {
	p, err := s.Get(ctx, sku)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	for _, existing := range p.Reviews {
		if existing.CustomerEmail == review.CustomerEmail {
			return nil, ErrAlreadyReviewed
		}
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.nowFunc()
	}
	expected := p.UpdatedAt
	p.Reviews = append(p.Reviews, review)
	if err := s.saveIf(ctx, *p, expected); err != nil {
		return nil, err
	}
	return s.Get(ctx, sku)
}

// AdjustStock applies a manual stock delta. Negative deltas are guarded so
// stock can never go below zero; returns ErrOutOfStock when the floor check
// fails. The product must exist (callers pre-check for a clean NotFound).
func (s *Store) AdjustStock(ctx context.Context, sku string, delta int) error {
	now := s.nowFunc()
	nowAttr, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("marshal timestamp: %w", err)
	}

	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"sku": &types.AttributeValueMemberS{Value: sku},
		},
	}
	if delta < 0 {
		q := fmt.Sprintf("%d", -delta)
		input.UpdateExpression = awsString("SET stock = stock - :q, updated_at = :ua")
		input.ConditionExpression = awsString("attribute_exists(sku) AND stock >= :q")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":q":  &types.AttributeValueMemberN{Value: q},
			":ua": nowAttr,
		}
	} else {
		input.UpdateExpression = awsString("SET stock = stock + :q, updated_at = :ua")
		input.ConditionExpression = awsString("attribute_exists(sku)")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":q":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
			":ua": nowAttr,
		}
	}

	_, err = s.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrOutOfStock
		}
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
