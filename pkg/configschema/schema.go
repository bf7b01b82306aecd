// Package configschema describes the storefront configuration file as JSON Schema.
package configschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/nimburion/storefront/pkg/config"
)

var durationType = reflect.TypeOf(time.Duration(0))

// enums lists the keys that only accept a closed set of values.
var enums = map[string][]any{
	"router_type":              {"gin", "gorilla"},
	"database.type":            {config.DatabaseTypeMongoDB, config.DatabaseTypeMemory},
	"eventbus.type":            {config.EventBusTypeNone, config.EventBusTypeKafka},
	"rate_limit.type":          {config.RateLimitTypeLocal, config.RateLimitTypeRedis},
	"observability.log_level":  {"debug", "info", "warn", "error"},
	"observability.log_format": {"json", "text", "console"},
}

// BuildSchema returns the schema of the configuration file. Property names
// are the file keys, every property carries its default and nothing is
// required.
func BuildSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.ForType(reflect.TypeOf(config.Config{}), &jsonschema.ForOptions{
		IgnoreInvalidTypes: true,
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			durationType: {Type: "string"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}

	if err := annotate(schema, reflect.ValueOf(*config.DefaultConfig())); err != nil {
		return nil, err
	}
	for path, values := range enums {
		if prop := Lookup(schema, path); prop != nil {
			prop.Enum = values
		}
	}

	schema.Schema = "https://json-schema.org/draft/2020-12/schema"
	schema.Title = "storefront configuration"
	schema.Description = "Keys may also be set through STOREFRONT_* environment variables."
	return schema, nil
}

// Lookup returns the property at a dotted key path, or nil.
func Lookup(schema *jsonschema.Schema, path string) *jsonschema.Schema {
	current := schema
	for _, part := range strings.Split(path, ".") {
		if current == nil {
			return nil
		}
		current = current.Properties[part]
	}
	return current
}

// annotate renames properties to their mapstructure keys and attaches the
// defaults held by v.
func annotate(schema *jsonschema.Schema, v reflect.Value) error {
	t := v.Type()
	props := make(map[string]*jsonschema.Schema, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		prop, ok := schema.Properties[field.Name]
		if !ok || !field.IsExported() {
			continue
		}
		value := v.Field(i)

		switch {
		case field.Type == durationType:
			// TypeSchemas entries are shared between fields.
			raw, err := json.Marshal(value.Interface().(time.Duration).String())
			if err != nil {
				return err
			}
			prop = &jsonschema.Schema{Type: "string", Description: "Go duration, e.g. 500ms or 30s", Default: raw}
		case field.Type.Kind() == reflect.Struct:
			if err := annotate(prop, value); err != nil {
				return err
			}
		case field.Type.Kind() == reflect.Slice && value.IsNil():
		default:
			raw, err := json.Marshal(value.Interface())
			if err != nil {
				return fmt.Errorf("marshal default of %s: %w", field.Name, err)
			}
			prop.Default = raw
		}
		props[keyName(field)] = prop
	}
	schema.Properties = props
	schema.Required = nil
	schema.PropertyOrder = nil
	return nil
}

func keyName(field reflect.StructField) string {
	if tag, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ","); tag != "" {
		return tag
	}
	return strings.ToLower(field.Name)
}
