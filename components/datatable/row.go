package datatable

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/ettle/strcase"
)

// Row is a uniquely identified record. The id is used as render identity and
// must not change while the row is displayed.
type Row interface {
	RowID() string
}

// Fielder lets a row answer column lookups directly instead of going through
// reflection.
type Fielder interface {
	Field(key string) (any, bool)
}

// Record is a schemaless row, typically decoded from JSON or provided by a
// widget configuration.
type Record map[string]any

// RowID returns the "id" entry formatted as a string.
func (r Record) RowID() string {
	if v, ok := r["id"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// Field implements Fielder.
func (r Record) Field(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// FieldValue resolves key against row. Fielder rows answer directly, maps are
// indexed, and structs are matched by json tag first, then by field name.
func FieldValue(row any, key string) (any, bool) {
	if f, ok := row.(Fielder); ok {
		return f.Field(key)
	}
	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		index, ok := structFieldIndex(v.Type(), key)
		if !ok {
			return nil, false
		}
		return v.FieldByIndex(index).Interface(), true
	default:
		return nil, false
	}
}

type fieldCacheKey struct {
	typ reflect.Type
	key string
}

var fieldIndexCache sync.Map

func structFieldIndex(typ reflect.Type, key string) ([]int, bool) {
	cacheKey := fieldCacheKey{typ: typ, key: key}
	if cached, ok := fieldIndexCache.Load(cacheKey); ok {
		index, _ := cached.([]int)
		return index, index != nil
	}
	index := lookupFieldIndex(typ, key)
	fieldIndexCache.Store(cacheKey, index)
	return index, index != nil
}

func lookupFieldIndex(typ reflect.Type, key string) []int {
	pascal := strcase.ToPascal(key)
	var byName []int
	for _, field := range reflect.VisibleFields(typ) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		if tag := field.Tag.Get("json"); tag != "" {
			name, _, _ := strings.Cut(tag, ",")
			if name == key {
				return field.Index
			}
		}
		if byName == nil && (field.Name == pascal || strings.EqualFold(field.Name, key)) {
			byName = field.Index
		}
	}
	return byName
}

// LabelFromKey turns a column key such as "unitPrice" or "order_id" into a
// header label ("Unit Price", "Order Id").
func LabelFromKey(key string) string {
	parts := strings.Split(strcase.ToSnake(key), "_")
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		words = append(words, strings.ToUpper(part[:1])+part[1:])
	}
	return strings.Join(words, " ")
}
