package commerce

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/nimburion/storefront/pkg/repository/document"
)

// BuildUpdate turns an update payload into a sparse set document keyed by
// BSON field name. Pointer, slice and map fields are present when non-nil,
// so an explicit false, 0 or "" is applied while a JSON null or an omitted
// key is not. Other fields are present when non-zero.
func BuildUpdate(payload interface{}) (document.Document, error) {
	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, newError(ErrEmptyUpdate, "No data provided to update")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("update payload must be a struct, got %s", v.Kind())
	}

	fields := document.Document{}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := bsonName(sf)
		if name == "" {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Ptr:
			if !fv.IsNil() {
				fields[name] = fv.Elem().Interface()
			}
		case reflect.Slice, reflect.Map, reflect.Interface:
			if !fv.IsNil() {
				fields[name] = fv.Interface()
			}
		default:
			if !fv.IsZero() {
				fields[name] = fv.Interface()
			}
		}
	}

	if len(fields) == 0 {
		return nil, newError(ErrEmptyUpdate, "No data provided to update")
	}
	return fields, nil
}

func bsonName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup("bson")
	if !ok {
		return strings.ToLower(sf.Name)
	}
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(sf.Name)
	default:
		return name
	}
}
