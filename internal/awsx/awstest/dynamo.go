// Package awstest provides in-memory stand-ins for the AWS clients used by
// store and handler tests. The Dynamo fake only understands the condition and
// update expressions the stores actually emit; it is not a general DynamoDB
// emulator.
package awstest

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Dynamo is an in-memory DynamoDBAPI implementation. Items are stored per
// table keyed by the string value of the table's partition key attribute.
type Dynamo struct {
	mu     sync.Mutex
	pks    map[string]string
	tables map[string]map[string]map[string]types.AttributeValue
}

func NewDynamo() *Dynamo {
	return &Dynamo{
		pks:    map[string]string{},
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

// AddTable registers a table and the name of its partition key attribute.
func (d *Dynamo) AddTable(name, pkAttr string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pks[name] = pkAttr
	d.tables[name] = map[string]map[string]types.AttributeValue{}
}

// Seed writes an item directly, bypassing condition checks.
func (d *Dynamo) Seed(table string, item map[string]types.AttributeValue) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pk := d.keyOf(table, item)
	d.tables[table][pk] = item
}

// Item returns the raw stored item, or nil.
func (d *Dynamo) Item(table, key string) map[string]types.AttributeValue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tables[table][key]
}

// Count returns the number of items in a table.
func (d *Dynamo) Count(table string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tables[table])
}

func (d *Dynamo) keyOf(table string, item map[string]types.AttributeValue) string {
	attr := d.pks[table]
	v, ok := item[attr].(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return v.Value
}

func (d *Dynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	table := *params.TableName
	pk := d.keyOf(table, params.Key)
	item, ok := d.tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (d *Dynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	table := *params.TableName
	pk := d.keyOf(table, params.Item)
	if pk == "" {
		return nil, errors.New("awstest: item missing partition key")
	}
	existing := d.tables[table][pk]
	if params.ConditionExpression != nil {
		if !evalCondition(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, existing) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	d.tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (d *Dynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	table := *params.TableName
	pk := d.keyOf(table, params.Key)
	item := d.tables[table][pk]
	if params.ConditionExpression != nil {
		if !evalCondition(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, item) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	if item == nil {
		item = map[string]types.AttributeValue{}
		for k, v := range params.Key {
			item[k] = v
		}
	}
	if params.UpdateExpression != nil {
		if err := applyUpdate(*params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, item); err != nil {
			return nil, err
		}
	}
	d.tables[table][pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (d *Dynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	table := *params.TableName
	pk := d.keyOf(table, params.Key)
	existing := d.tables[table][pk]
	if params.ConditionExpression != nil {
		if !evalCondition(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, existing) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	delete(d.tables[table], pk)
	return &dyn.DeleteItemOutput{}, nil
}

func (d *Dynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	table := *params.TableName
	items := make([]map[string]types.AttributeValue, 0, len(d.tables[table]))
	for _, it := range d.tables[table] {
		items = append(items, it)
	}
	count := int32(len(items))
	return &dyn.ScanOutput{Items: items, Count: count, ScannedCount: count}, nil
}

func (d *Dynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// first pass: evaluate every condition; all-or-nothing. DynamoDB also
	// rejects a transaction that targets the same item more than once, so the
	// fake does too.
	reasons := make([]types.CancellationReason, len(params.TransactItems))
	targets := map[string]struct{}{}
	failed := false
	for i, ti := range params.TransactItems {
		reasons[i] = types.CancellationReason{Code: strPtr("None")}
		var table string
		var cond *string
		var names map[string]string
		var values map[string]types.AttributeValue
		var key map[string]types.AttributeValue
		switch {
		case ti.Put != nil:
			table = *ti.Put.TableName
			cond, names, values = ti.Put.ConditionExpression, ti.Put.ExpressionAttributeNames, ti.Put.ExpressionAttributeValues
			key = ti.Put.Item
		case ti.Update != nil:
			table = *ti.Update.TableName
			cond, names, values = ti.Update.ConditionExpression, ti.Update.ExpressionAttributeNames, ti.Update.ExpressionAttributeValues
			key = ti.Update.Key
		case ti.Delete != nil:
			table = *ti.Delete.TableName
			cond, names, values = ti.Delete.ConditionExpression, ti.Delete.ExpressionAttributeNames, ti.Delete.ExpressionAttributeValues
			key = ti.Delete.Key
		}
		target := table + "/" + d.keyOf(table, key)
		if _, dup := targets[target]; dup {
			return nil, errors.New("awstest: transaction cannot include multiple operations on one item: " + target)
		}
		targets[target] = struct{}{}
		existing := d.tables[table][d.keyOf(table, key)]
		if cond != nil && !evalCondition(*cond, names, values, existing) {
			reasons[i] = types.CancellationReason{Code: strPtr("ConditionalCheckFailed")}
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	// second pass: apply
	for _, ti := range params.TransactItems {
		switch {
		case ti.Put != nil:
			table := *ti.Put.TableName
			d.tables[table][d.keyOf(table, ti.Put.Item)] = ti.Put.Item
		case ti.Update != nil:
			table := *ti.Update.TableName
			pk := d.keyOf(table, ti.Update.Key)
			item := d.tables[table][pk]
			if item == nil {
				item = map[string]types.AttributeValue{}
				for k, v := range ti.Update.Key {
					item[k] = v
				}
			}
			if err := applyUpdate(*ti.Update.UpdateExpression, ti.Update.ExpressionAttributeNames, ti.Update.ExpressionAttributeValues, item); err != nil {
				return nil, err
			}
			d.tables[table][pk] = item
		case ti.Delete != nil:
			table := *ti.Delete.TableName
			delete(d.tables[table], d.keyOf(table, ti.Delete.Key))
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

// evalCondition evaluates the clause forms the stores emit, joined by AND:
// attribute_exists(a), attribute_not_exists(a), a = :v, a <> :v, a >= :v.
func evalCondition(expr string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) bool {
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.HasPrefix(clause, "attribute_not_exists("):
			if item != nil {
				return false
			}
		case strings.HasPrefix(clause, "attribute_exists("):
			if item == nil {
				return false
			}
		default:
			var op string
			for _, candidate := range []string{" <> ", " >= ", " = "} {
				if strings.Contains(clause, candidate) {
					op = candidate
					break
				}
			}
			if op == "" {
				return false
			}
			parts := strings.SplitN(clause, op, 2)
			attr := resolveName(strings.TrimSpace(parts[0]), names)
			want := values[strings.TrimSpace(parts[1])]
			if item == nil {
				return false
			}
			got := item[attr]
			switch strings.TrimSpace(op) {
			case "=":
				if !attrEqual(got, want) {
					return false
				}
			case "<>":
				if attrEqual(got, want) {
					return false
				}
			case ">=":
				if attrNum(got) < attrNum(want) {
					return false
				}
			}
		}
	}
	return true
}

// applyUpdate handles "SET a = :v, b = b - :w, c = c + :x" expressions.
func applyUpdate(expr string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) error {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "SET ") {
		return errors.New("awstest: unsupported update expression: " + expr)
	}
	for _, assign := range strings.Split(strings.TrimPrefix(expr, "SET "), ", ") {
		parts := strings.SplitN(assign, " = ", 2)
		if len(parts) != 2 {
			return errors.New("awstest: unsupported assignment: " + assign)
		}
		target := resolveName(strings.TrimSpace(parts[0]), names)
		rhs := strings.TrimSpace(parts[1])
		switch {
		case strings.HasPrefix(rhs, ":"):
			item[target] = values[rhs]
		case strings.Contains(rhs, " - "), strings.Contains(rhs, " + "):
			op := " - "
			if strings.Contains(rhs, " + ") {
				op = " + "
			}
			terms := strings.SplitN(rhs, op, 2)
			base := attrNum(item[resolveName(strings.TrimSpace(terms[0]), names)])
			delta := attrNum(values[strings.TrimSpace(terms[1])])
			result := base - delta
			if op == " + " {
				result = base + delta
			}
			item[target] = &types.AttributeValueMemberN{Value: strconv.FormatFloat(result, 'f', -1, 64)}
		default:
			return errors.New("awstest: unsupported assignment rhs: " + rhs)
		}
	}
	return nil
}

func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if resolved, ok := names[name]; ok {
			return resolved
		}
	}
	return name
}

func attrEqual(a, b types.AttributeValue) bool {
	as, aok := a.(*types.AttributeValueMemberS)
	bs, bok := b.(*types.AttributeValueMemberS)
	if aok && bok {
		return as.Value == bs.Value
	}
	an, aok := a.(*types.AttributeValueMemberN)
	bn, bok := b.(*types.AttributeValueMemberN)
	if aok && bok {
		return attrNumValue(an) == attrNumValue(bn)
	}
	return false
}

func attrNum(v types.AttributeValue) float64 {
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	return attrNumValue(n)
}

func attrNumValue(n *types.AttributeValueMemberN) float64 {
	f, _ := strconv.ParseFloat(n.Value, 64)
	return f
}

func strPtr(s string) *string { return &s }
