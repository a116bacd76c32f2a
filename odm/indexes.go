package odm

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"catalogdemo/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec is one index declared by a model's `index` struct tags.
type IndexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
	TTL    *int32
	Text   bool
}

func (s IndexSpec) model() mongo.IndexModel {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTL != nil {
		opts.SetExpireAfterSeconds(*s.TTL)
	}
	return mongo.IndexModel{Keys: s.Keys, Options: opts}
}

// indexName follows the server's default naming: field_value pairs joined by "_".
func indexName(keys bson.D) string {
	parts := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		parts = append(parts, k.Key, fmt.Sprint(k.Value))
	}
	return strings.Join(parts, "_")
}

// parseIndexTag splits `single,order:-1;unique` into one map per index.
func parseIndexTag(tag string) []map[string]string {
	var result []map[string]string
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			kv := strings.SplitN(sub, ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		if len(entry) > 0 {
			result = append(result, entry)
		}
	}
	return result
}

func parseOrder(config map[string]string) (int, error) {
	v, ok := config["order"]
	if !ok {
		return 1, nil
	}
	switch v {
	case "1":
		return 1, nil
	case "-1":
		return -1, nil
	}
	return 0, fmt.Errorf("invalid index order %q", v)
}

func bsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("bson")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}

// indexSpecs reads the `index` tags of a model type.
func indexSpecs(t reflect.Type) ([]IndexSpec, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model %s is not a struct", t)
	}

	var specs []IndexSpec
	var text bson.D
	compounds := map[string]*IndexSpec{}
	var compoundOrder []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		name := bsonFieldName(field)
		if name == "" {
			continue
		}

		for _, config := range parseIndexTag(tag) {
			order, err := parseOrder(config)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			_, sparse := config["sparse"]

			if _, ok := config["text"]; ok {
				text = append(text, bson.E{Key: name, Value: "text"})
			}

			if _, ok := config["single"]; ok {
				keys := bson.D{{Key: name, Value: order}}
				specs = append(specs, IndexSpec{Name: indexName(keys), Keys: keys, Sparse: sparse})
			}

			_, compound := config["compound"]
			if _, ok := config["unique"]; ok && !compound {
				keys := bson.D{{Key: name, Value: order}}
				specs = append(specs, IndexSpec{Name: indexName(keys), Keys: keys, Unique: true, Sparse: sparse})
			}

			if v, ok := config["ttl"]; ok {
				ttl, err := strconv.ParseInt(v, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("field %s: invalid ttl %q: %w", field.Name, v, err)
				}
				seconds := int32(ttl)
				keys := bson.D{{Key: name, Value: 1}}
				specs = append(specs, IndexSpec{Name: indexName(keys), Keys: keys, TTL: &seconds})
			}

			if group, ok := config["compound"]; ok {
				spec, exists := compounds[group]
				if !exists {
					spec = &IndexSpec{Name: group}
					compounds[group] = spec
					compoundOrder = append(compoundOrder, group)
				}
				spec.Keys = append(spec.Keys, bson.E{Key: name, Value: order})
				if _, ok := config["unique"]; ok {
					spec.Unique = true
				}
				spec.Sparse = spec.Sparse || sparse
			}
		}
	}

	for _, group := range compoundOrder {
		specs = append(specs, *compounds[group])
	}

	// Only one text index is allowed per collection, so all text fields share it.
	if len(text) > 0 {
		specs = append(specs, IndexSpec{Name: indexName(text), Keys: text, Text: true})
	}
	return specs, nil
}

type indexInfo struct {
	Name               string `bson:"name"`
	Key                bson.D `bson:"key"`
	Unique             bool   `bson:"unique"`
	Sparse             bool   `bson:"sparse"`
	ExpireAfterSeconds *int64 `bson:"expireAfterSeconds"`
	Weights            bson.M `bson:"weights"`
}

func (info indexInfo) matches(spec IndexSpec) bool {
	if info.Unique != spec.Unique || info.Sparse != spec.Sparse {
		return false
	}
	if (info.ExpireAfterSeconds == nil) != (spec.TTL == nil) {
		return false
	}
	if spec.TTL != nil && *info.ExpireAfterSeconds != int64(*spec.TTL) {
		return false
	}

	if spec.Text {
		if len(info.Weights) != len(spec.Keys) {
			return false
		}
		for _, k := range spec.Keys {
			if _, ok := info.Weights[k.Key]; !ok {
				return false
			}
		}
		return true
	}

	if len(info.Key) != len(spec.Keys) {
		return false
	}
	for i, k := range spec.Keys {
		if info.Key[i].Key != k.Key || !sameIndexValue(info.Key[i].Value, k.Value) {
			return false
		}
	}
	return true
}

func sameIndexValue(existing, want any) bool {
	w, ok := want.(int)
	if !ok {
		return existing == want
	}
	switch e := existing.(type) {
	case int32:
		return int(e) == w
	case int64:
		return int(e) == w
	case float64:
		return int(e) == w
	}
	return false
}

// ensureIndexes creates the declared indexes, replacing same-named indexes
// whose definition changed.
func ensureIndexes(ctx context.Context, coll *mongo.Collection, specs []IndexSpec) error {
	if len(specs) == 0 {
		return nil
	}
	log := logger.Get().WithField("collection", coll.Name())

	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	var infos []indexInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return fmt.Errorf("failed to decode indexes: %w", err)
	}
	existing := make(map[string]indexInfo, len(infos))
	for _, info := range infos {
		existing[info.Name] = info
	}

	for _, spec := range specs {
		if info, ok := existing[spec.Name]; ok {
			if info.matches(spec) {
				log.WithField("index", spec.Name).Debug("Index up to date")
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", spec.Name, err)
			}
			log.WithField("index", spec.Name).Info("Dropped outdated index")
		}

		if _, err := coll.Indexes().CreateOne(ctx, spec.model()); err != nil {
			return fmt.Errorf("failed to create index %s: %w", spec.Name, err)
		}
		log.WithFields(logrus.Fields{"index": spec.Name, "keys": spec.Keys}).Info("Created index")
	}
	return nil
}
