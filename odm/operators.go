package odm

import (
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Text is a $text full-text search filter. The collection needs a text index.
func Text(search string) bson.D {
	return bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: search}}}}
}

func And(filters ...any) bson.D { return bson.D{{Key: "$and", Value: bson.A(filters)}} }

func Or(filters ...any) bson.D { return bson.D{{Key: "$or", Value: bson.A(filters)}} }

// Updater is implemented by the typed update operators.
type Updater interface {
	UpdateDocument() bson.D
}

// Set replaces field values: Set{price: 5}.
type Set map[Field]any

func (s Set) UpdateDocument() bson.D { return fieldOperator("$set", s) }

// Inc adds to numeric fields: Inc{price: -1}.
type Inc map[Field]any

func (i Inc) UpdateDocument() bson.D { return fieldOperator("$inc", i) }

// Unset removes fields from the document.
type Unset []Field

func (u Unset) UpdateDocument() bson.D {
	fields := make(bson.D, 0, len(u))
	for _, f := range u {
		fields = append(fields, bson.E{Key: string(f), Value: ""})
	}
	return bson.D{{Key: "$unset", Value: fields}}
}

func fieldOperator(op string, m map[Field]any) bson.D {
	keys := make([]string, 0, len(m))
	for f := range m {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)

	fields := make(bson.D, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, bson.E{Key: k, Value: m[Field(k)]})
	}
	return bson.D{{Key: op, Value: fields}}
}

// buildFilter combines filters with $and. No filters matches everything.
func buildFilter(filters []any) any {
	var nonEmpty []any
	for _, f := range filters {
		if f == nil || isEmptyDoc(f) {
			continue
		}
		nonEmpty = append(nonEmpty, f)
	}

	switch len(nonEmpty) {
	case 0:
		return bson.D{}
	case 1:
		return nonEmpty[0]
	default:
		return And(nonEmpty...)
	}
}

func isEmptyDoc(v any) bool {
	d, ok := toD(v)
	return ok && len(d) == 0
}

// buildUpdate merges typed and native update documents into one. Repeated
// operators are merged field by field.
func buildUpdate(updates []any) (bson.D, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no update operators", ErrInvalidUpdate)
	}

	var merged bson.D
	index := map[string]int{}
	for _, u := range updates {
		var doc bson.D
		if up, ok := u.(Updater); ok {
			doc = up.UpdateDocument()
		} else if d, ok := toD(u); ok {
			doc = d
		} else {
			return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidUpdate, u)
		}

		for _, e := range doc {
			if !strings.HasPrefix(e.Key, "$") {
				return nil, fmt.Errorf("%w: %q is not an update operator", ErrInvalidUpdate, e.Key)
			}
			fields, ok := toD(e.Value)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a document", ErrInvalidUpdate, e.Key)
			}
			if i, seen := index[e.Key]; seen {
				merged[i].Value = append(merged[i].Value.(bson.D), fields...)
				continue
			}
			index[e.Key] = len(merged)
			merged = append(merged, bson.E{Key: e.Key, Value: append(bson.D{}, fields...)})
		}
	}
	return merged, nil
}

func toD(v any) (bson.D, bool) {
	switch d := v.(type) {
	case bson.D:
		return d, true
	case bson.M:
		return sortedD(d), true
	case map[string]any:
		return sortedD(d), true
	case map[Field]any:
		return fieldOperatorFields(d), true
	case Set:
		return fieldOperatorFields(d), true
	case Inc:
		return fieldOperatorFields(d), true
	default:
		return nil, false
	}
}

func fieldOperatorFields(m map[Field]any) bson.D {
	return fieldOperator("", m)[0].Value.(bson.D)
}

func sortedD(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: m[k]})
	}
	return d
}
