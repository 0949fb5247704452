package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/products"
)

var (
	// ErrNotFound indicates the order id does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrStatusMismatch indicates a conditional status update lost its race.
	ErrStatusMismatch = errors.New("status mismatch/conditional failed")
	// ErrInvalidTransition indicates a status edit the transition table forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyCancelled indicates a cancellation of an order whose stock was
	// already reversed; accepting it would double-credit stock.
	ErrAlreadyCancelled = errors.New("order already cancelled or refunded")
)

// Store encapsulates operations on the orders table. Stock-ledger operations
// span the orders table and the products table inside one
// TransactWriteItems call, so stock can never go negative and no partial
// decrement is ever observable.
type Store struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client awsx.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// CreateWithStockTransaction atomically persists the order and decrements
// stock for every line item. Each decrement carries the floor condition
// stock >= quantity; if any item fails, nothing is written and
// products.ErrOutOfStock is returned. Callers must resolve every SKU against
// the catalog first, so a cancelled transaction here means insufficient
// stock, not a missing product.
func (s *Store) CreateWithStockTransaction(ctx context.Context, productsTable string, order Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.OrderTime.IsZero() {
		order.OrderTime = now
	}
	order.UpdatedAt = now

	orderItem, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	nowAttr, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("marshal timestamp: %w", err)
	}

	deltas := stockDeltas(order.Items)
	transactItems := make([]types.TransactWriteItem, 0, len(deltas)+1)
	for _, d := range deltas {
		transactItems = append(transactItems, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &productsTable,
				Key: map[string]types.AttributeValue{
					"sku": &types.AttributeValueMemberS{Value: d.sku},
				},
				UpdateExpression:    awsString("SET stock = stock - :q, updated_at = :ua"),
				ConditionExpression: awsString("attribute_exists(sku) AND stock >= :q"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":q":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", d.quantity)},
					":ua": nowAttr,
				},
			},
		})
	}
	transactItems = append(transactItems, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           &s.tableName,
			Item:                orderItem,
			ConditionExpression: awsString("attribute_not_exists(order_id)"),
		},
	})

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return products.ErrOutOfStock
		}
		return fmt.Errorf("transact create order: %w", err)
	}
	return nil
}

// CancelWithStockReversal atomically marks the order cancelled, opens the
// refund sub-record, and credits stock back for every line item. The order
// update is conditioned on the status not already being cancelled or
// refunded, which makes the reversal exactly-once: a duplicate cancellation
// returns ErrAlreadyCancelled instead of double-crediting stock.
// Line items whose product no longer exists in the catalog are skipped.
func (s *Store) CancelWithStockReversal(ctx context.Context, productsTable string, order Order, reason string) error {
	now := s.nowFunc()
	nowAttr, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("marshal timestamp: %w", err)
	}
	refundAttr, err := attributevalue.Marshal(Refund{
		Amount: order.TotalAmount,
		Status: RefundPending,
		Reason: reason,
	})
	if err != nil {
		return fmt.Errorf("marshal refund: %w", err)
	}

	// order update goes first so a cancelled transaction's first
	// cancellation reason identifies a duplicate cancel
	transactItems := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: &s.tableName,
				Key: map[string]types.AttributeValue{
					"order_id": &types.AttributeValueMemberS{Value: order.OrderID},
				},
				UpdateExpression:         awsString("SET #s = :cancelled, payment_status = :failed, refund = :refund, updated_at = :ua"),
				ConditionExpression:      awsString("#s <> :cancelled AND #s <> :refunded"),
				ExpressionAttributeNames: map[string]string{"#s": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":cancelled": &types.AttributeValueMemberS{Value: StatusCancelled},
					":refunded":  &types.AttributeValueMemberS{Value: StatusRefunded},
					":failed":    &types.AttributeValueMemberS{Value: PaymentFailed},
					":refund":    refundAttr,
					":ua":        nowAttr,
				},
			},
		},
	}

	for _, d := range stockDeltas(order.Items) {
		exists, err := s.productExists(ctx, productsTable, d.sku)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		transactItems = append(transactItems, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &productsTable,
				Key: map[string]types.AttributeValue{
					"sku": &types.AttributeValueMemberS{Value: d.sku},
				},
				UpdateExpression:    awsString("SET stock = stock + :q, updated_at = :ua"),
				ConditionExpression: awsString("attribute_exists(sku)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":q":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", d.quantity)},
					":ua": nowAttr,
				},
			},
		})
	}

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			if len(tce.CancellationReasons) > 0 && isConditionalFailure(tce.CancellationReasons[0]) {
				return ErrAlreadyCancelled
			}
			return fmt.Errorf("transact cancel order: %w", err)
		}
		return fmt.Errorf("transact cancel order: %w", err)
	}
	return nil
}

type stockDelta struct {
	sku      string
	quantity int
}

// stockDeltas collapses line items into one quantity per SKU, preserving
// first-seen order. An order can carry several lines for one SKU (one per
// variant), but a DynamoDB transaction may touch each item only once.
func stockDeltas(items []Item) []stockDelta {
	index := map[string]int{}
	deltas := make([]stockDelta, 0, len(items))
	for _, it := range items {
		if i, ok := index[it.SKU]; ok {
			deltas[i].quantity += it.Quantity
			continue
		}
		index[it.SKU] = len(deltas)
		deltas = append(deltas, stockDelta{sku: it.SKU, quantity: it.Quantity})
	}
	return deltas
}

func (s *Store) productExists(ctx context.Context, productsTable, sku string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &productsTable,
		Key: map[string]types.AttributeValue{
			"sku": &types.AttributeValueMemberS{Value: sku},
		},
	})
	if err != nil {
		return false, fmt.Errorf("get product %s: %w", sku, err)
	}
	return len(out.Item) > 0, nil
}

func isConditionalFailure(r types.CancellationReason) bool {
	return r.Code != nil && *r.Code == "ConditionalCheckFailed"
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// List returns every order; callers filter and paginate in memory.
func (s *Store) List(ctx context.Context) ([]Order, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	list := make([]Order, 0, len(out.Items))
	for _, item := range out.Items {
		var o Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		list = append(list, o)
	}
	return list, nil
}

// UpdateStatus conditionally moves the order from expectedStatus to
// newStatus. Returns ErrStatusMismatch if the stored status changed in
// between. Transition-table validation happens before the write.
func (s *Store) UpdateStatus(ctx context.Context, orderID, expectedStatus, newStatus string) error {
	if !CanTransition(expectedStatus, newStatus) {
		return ErrInvalidTransition
	}
	now := s.nowFunc()
	nowAttr, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("marshal timestamp: %w", err)
	}
	_, err = s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ConditionExpression:      awsString("#s = :expected"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: newStatus},
			":expected": &types.AttributeValueMemberS{Value: expectedStatus},
			":ua":       nowAttr,
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// Save overwrites an order record (payment/tracking/refund field edits).
func (s *Store) Save(ctx context.Context, o Order) error {
	o.UpdatedAt = s.nowFunc()
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
