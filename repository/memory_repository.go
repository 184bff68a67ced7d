package repository

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"query-hub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is a process-local DocumentRepository. It understands the
// subset of the query language the listing filter produces: exact equality,
// primitive.Regex constraints and a single-key sort.
type MemoryRepository struct {
	name  string
	mu    sync.RWMutex
	order []string
	docs  map[string]models.Document
}

func NewMemoryRepository(name string) *MemoryRepository {
	return &MemoryRepository{
		name: name,
		docs: make(map[string]models.Document),
	}
}

func (r *MemoryRepository) Find(_ context.Context, query models.ListQuery) ([]models.Document, error) {
	matchers, err := compileFilter(query.Filter)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", r.name, err)
	}

	r.mu.RLock()
	docs := make([]models.Document, 0, len(r.order))
	for _, key := range r.order {
		doc := r.docs[key]
		if matchAll(doc, matchers) {
			docs = append(docs, copyDocument(doc))
		}
	}
	r.mu.RUnlock()

	if len(query.Sort) > 0 {
		field, dir := query.Sort[0].Key, sortDirection(query.Sort[0].Value)
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i][field], docs[j][field])
			if dir < 0 {
				return c > 0
			}
			return c < 0
		})
	}
	return docs, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[idKey(id)]
	if !ok {
		return nil, nil
	}
	return copyDocument(doc), nil
}

func (r *MemoryRepository) Insert(_ context.Context, doc models.Document) (*models.InsertAck, error) {
	stored := copyDocument(doc)
	id, ok := stored[models.FieldID]
	if !ok || id == nil {
		id = primitive.NewObjectID()
		stored[models.FieldID] = id
	}
	if !reflect.TypeOf(id).Comparable() {
		return nil, fmt.Errorf("insertOne in %s: unsupported _id type %T", r.name, id)
	}

	key := idKey(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.docs[key]; exists {
		return nil, fmt.Errorf("insertOne in %s: E11000 duplicate key error _id: %v", r.name, id)
	}
	r.docs[key] = stored
	r.order = append(r.order, key)

	return &models.InsertAck{Acknowledged: true, InsertedID: id}, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, id primitive.ObjectID, fields models.Document) (*models.UpdateAck, error) {
	key := idKey(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[key]
	if !ok {
		doc = copyDocument(fields)
		doc[models.FieldID] = id
		r.docs[key] = doc
		r.order = append(r.order, key)
		return &models.UpdateAck{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
	}

	modified := false
	for k, v := range fields {
		if k == models.FieldID {
			continue
		}
		if old, exists := doc[k]; !exists || !reflect.DeepEqual(old, v) {
			doc[k] = v
			modified = true
		}
	}

	ack := &models.UpdateAck{Acknowledged: true, MatchedCount: 1}
	if modified {
		ack.ModifiedCount = 1
	}
	return ack, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id primitive.ObjectID) (*models.DeleteAck, error) {
	key := idKey(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[key]; !ok {
		return &models.DeleteAck{Acknowledged: true}, nil
	}
	delete(r.docs, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &models.DeleteAck{Acknowledged: true, DeletedCount: 1}, nil
}

func idKey(id interface{}) string {
	return fmt.Sprintf("%T:%v", id, id)
}

func copyDocument(doc models.Document) models.Document {
	out := make(models.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

type matcher struct {
	field string
	re    *regexp.Regexp
	value interface{}
}

func compileFilter(filter bson.M) ([]matcher, error) {
	matchers := make([]matcher, 0, len(filter))
	for field, v := range filter {
		switch cond := v.(type) {
		case primitive.Regex:
			pattern := cond.Pattern
			if strings.Contains(cond.Options, "i") {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid regular expression for %s: %w", field, err)
			}
			matchers = append(matchers, matcher{field: field, re: re})
		default:
			matchers = append(matchers, matcher{field: field, value: v})
		}
	}
	return matchers, nil
}

func matchAll(doc models.Document, matchers []matcher) bool {
	for _, m := range matchers {
		v, ok := doc[m.field]
		if m.re != nil {
			s, isString := v.(string)
			if !ok || !isString || !m.re.MatchString(s) {
				return false
			}
			continue
		}
		if !ok || !reflect.DeepEqual(v, m.value) {
			return false
		}
	}
	return true
}

func sortDirection(v interface{}) int {
	switch d := v.(type) {
	case int:
		return d
	case int32:
		return int(d)
	case int64:
		return int(d)
	case float64:
		return int(d)
	}
	return 1
}

// compareValues orders missing values first, then numbers, strings and dates.
func compareValues(a, b interface{}) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}

	switch ra {
	case rankNumber:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankDate:
		ta, tb := toTime(a), toTime(b)
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		}
		return 0
	}
	return 0
}

const (
	rankNull = iota
	rankNumber
	rankString
	rankDate
	rankOther
)

func typeRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return rankNull
	case int, int32, int64, float32, float64:
		return rankNumber
	case string:
		return rankString
	case time.Time, primitive.DateTime:
		return rankDate
	}
	return rankOther
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	}
	return time.Time{}
}
