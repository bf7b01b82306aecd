package document

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matches evaluates the subset of the MongoDB query language used by the
// storefront: implicit equality with array containment, $eq, $ne, $gt, $gte,
// $lt, $lte, $in, $nin and $exists on top-level fields.
func matches(doc, filter bson.M) (bool, error) {
	for key, cond := range filter {
		if strings.HasPrefix(key, "$") {
			return false, fmt.Errorf("unsupported top-level operator %q", key)
		}
		value, exists := doc[key]

		ops, isOps := operators(cond)
		if !isOps {
			if !equalsOrContains(value, exists, cond) {
				return false, nil
			}
			continue
		}
		for op, arg := range ops {
			ok, err := evalOperator(op, value, exists, arg)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

func evalOperator(op string, value interface{}, exists bool, arg interface{}) (bool, error) {
	switch op {
	case "$eq":
		return equalsOrContains(value, exists, arg), nil
	case "$ne":
		return !equalsOrContains(value, exists, arg), nil
	case "$gt", "$gte", "$lt", "$lte":
		if !exists {
			return false, nil
		}
		return anyElement(value, func(v interface{}) bool {
			c, ok := compareValues(v, arg)
			if !ok {
				return false
			}
			switch op {
			case "$gt":
				return c > 0
			case "$gte":
				return c >= 0
			case "$lt":
				return c < 0
			default:
				return c <= 0
			}
		}), nil
	case "$in", "$nin":
		list, ok := arg.(primitive.A)
		if !ok {
			return false, fmt.Errorf("%s requires an array", op)
		}
		found := false
		for _, candidate := range list {
			if equalsOrContains(value, exists, candidate) {
				found = true
				break
			}
		}
		return found == (op == "$in"), nil
	case "$exists":
		want, ok := arg.(bool)
		if !ok {
			return false, fmt.Errorf("$exists requires a boolean")
		}
		return exists == want, nil
	default:
		return false, fmt.Errorf("unsupported query operator %q", op)
	}
}

// operators returns cond as an operator document when every key starts with "$".
func operators(cond interface{}) (bson.M, bool) {
	m, ok := asDoc(cond)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func asDoc(v interface{}) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]interface{}:
		return bson.M(d), true
	case primitive.D:
		m := make(bson.M, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}

func equalsOrContains(value interface{}, exists bool, target interface{}) bool {
	if !exists {
		return target == nil
	}
	if _, targetIsArray := target.(primitive.A); !targetIsArray {
		if arr, ok := value.(primitive.A); ok {
			for _, el := range arr {
				if valuesEqual(el, target) {
					return true
				}
			}
			return false
		}
	}
	return valuesEqual(value, target)
}

func anyElement(value interface{}, pred func(interface{}) bool) bool {
	if arr, ok := value.(primitive.A); ok {
		for _, el := range arr {
			if pred(el) {
				return true
			}
		}
		return false
	}
	return pred(value)
}

func valuesEqual(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b interface{}) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case primitive.DateTime:
		bv, ok := b.(primitive.DateTime)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case primitive.ObjectID:
		bv, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return bytes.Compare(av[:], bv[:]), true
	default:
		return 0, false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
