package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema.
// Checks required and unknown properties, enums and numeric bounds, enough for the schema we generate.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema map[string]any
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	defs, _ := schema["$defs"].(map[string]any)
	if err := verifyNode("", configMap, schema, defs); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func verifyNode(path string, val any, node, defs map[string]any) error {
	if ref, ok := node["$ref"].(string); ok {
		def, ok := defs[strings.TrimPrefix(ref, "#/$defs/")].(map[string]any)
		if !ok {
			return fmt.Errorf("%s: unknown schema reference %s", nodeName(path), ref)
		}
		node = def
	}

	if enum, ok := node["enum"].([]any); ok {
		found := false
		for _, e := range enum {
			if fmt.Sprint(e) == fmt.Sprint(val) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: value %v is not one of %v", nodeName(path), val, enum)
		}
	}

	if num, ok := val.(float64); ok {
		if lim, ok := node["minimum"].(float64); ok && num < lim {
			return fmt.Errorf("%s: %v is less than minimum %v", nodeName(path), num, lim)
		}
		if lim, ok := node["maximum"].(float64); ok && num > lim {
			return fmt.Errorf("%s: %v is greater than maximum %v", nodeName(path), num, lim)
		}
	}

	props, ok := node["properties"].(map[string]any)
	if !ok {
		return nil
	}
	obj, ok := val.(map[string]any)
	if !ok {
		return fmt.Errorf("%s: expected object", nodeName(path))
	}

	if req, ok := node["required"].([]any); ok {
		for _, r := range req {
			if _, ok := obj[fmt.Sprint(r)]; !ok {
				return fmt.Errorf("%s is required", joinPath(path, fmt.Sprint(r)))
			}
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sub, ok := props[k].(map[string]any)
		if !ok {
			if ap, ok := node["additionalProperties"].(bool); ok && !ap {
				return fmt.Errorf("%s is not allowed", joinPath(path, k))
			}
			continue
		}
		if err := verifyNode(joinPath(path, k), obj[k], sub, defs); err != nil {
			return err
		}
	}
	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func nodeName(path string) string {
	if path == "" {
		return "config"
	}
	return path
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
