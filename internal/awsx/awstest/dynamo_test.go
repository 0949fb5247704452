package awstest

import (
	"context"
	"testing"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDB cancels transactions that include more than one operation on the
// same item; the fake must do the same so store tests catch it.
func TestTransactRejectsDuplicateTargets(t *testing.T) {
	db := NewDynamo()
	db.AddTable("products", "sku")
	db.Seed("products", map[string]types.AttributeValue{
		"sku":   &types.AttributeValueMemberS{Value: "sku-1"},
		"stock": &types.AttributeValueMemberN{Value: "10"},
	})

	update := func(qty string) types.TransactWriteItem {
		return types.TransactWriteItem{
			Update: &types.Update{
				TableName: strPtr("products"),
				Key: map[string]types.AttributeValue{
					"sku": &types.AttributeValueMemberS{Value: "sku-1"},
				},
				UpdateExpression: strPtr("SET stock = stock - :q"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":q": &types.AttributeValueMemberN{Value: qty},
				},
			},
		}
	}

	_, err := db.TransactWriteItems(context.Background(), &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{update("2"), update("3")},
	})
	if err == nil {
		t.Fatal("expected error for two operations on the same item")
	}

	// nothing may be applied
	got := db.Item("products", "sku-1")["stock"].(*types.AttributeValueMemberN)
	if got.Value != "10" {
		t.Fatalf("expected stock untouched at 10, got %s", got.Value)
	}
}
