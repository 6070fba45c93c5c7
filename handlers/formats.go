package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/AgentFS/types"
)

// sonicThreshold selects sonic over encoding/json for larger documents.
const sonicThreshold = 10 * 1024

// JSON previews object keys and array sizes on top of plain text decoding.
type JSON struct {
	*Text
	exts extensionSet
}

// NewJSON creates the JSON handler.
func NewJSON() *JSON {
	return &JSON{Text: NewText(), exts: newExtensionSet(".json", ".jsonl")}
}

func (j *JSON) Name() string { return "json" }

func (j *JSON) Extensions() []string { return j.exts.Extensions() }

func (j *JSON) Matches(ext string) bool { return j.exts.Matches(ext) }

func (j *JSON) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	result, err := j.Text.Decode(data, req)
	if err != nil || !req.AsText {
		return result, err
	}

	capped := capBytes(data, req.MaxBytes)
	var preview string
	if strings.HasSuffix(strings.ToLower(req.Path), ".jsonl") {
		preview = jsonlPreview(capped, req.Encoding)
	} else {
		preview = jsonPreview(capped)
	}
	if preview != "" {
		result.Preview = preview
	}
	return result, nil
}

func jsonPreview(data []byte) string {
	var parsed any
	if err := unmarshalJSON(data, &parsed); err != nil {
		return ""
	}
	switch v := parsed.(type) {
	case map[string]any:
		keys := documentOrderKeys(data, 5)
		if len(keys) == 0 {
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			keys = firstN(keys, 5)
		}
		return fmt.Sprintf("JSON Object with keys: %s", strings.Join(keys, ", "))
	case []any:
		return fmt.Sprintf("JSON Array with %d items", len(v))
	default:
		return ""
	}
}

func jsonlPreview(data []byte, encoding string) string {
	text, err := decodeCharset(data, encoding)
	if err != nil {
		return ""
	}
	lines := SplitLines(text)
	if len(lines) == 0 {
		return ""
	}
	var first any
	if err := unmarshalJSON([]byte(lines[0]), &first); err != nil {
		return ""
	}
	return fmt.Sprintf("JSONL: %s with %d lines", jsonTypeName(first), len(lines))
}

func unmarshalJSON(data []byte, v any) error {
	if len(data) > sonicThreshold {
		return sonic.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "value"
	}
}

// documentOrderKeys streams the top-level object's keys in source order,
// which map unmarshaling cannot preserve.
func documentOrderKeys(data []byte, n int) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}
	var keys []string
	for dec.More() && len(keys) < n {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)
		if err := skipJSONValue(dec); err != nil {
			return keys
		}
	}
	return keys
}

func skipJSONValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// CSV previews column and row counts on top of plain text decoding.
type CSV struct {
	*Text
	exts extensionSet
}

// NewCSV creates the CSV handler.
func NewCSV() *CSV {
	return &CSV{Text: NewText(), exts: newExtensionSet(".csv", ".tsv")}
}

func (c *CSV) Name() string { return "csv" }

func (c *CSV) Extensions() []string { return c.exts.Extensions() }

func (c *CSV) Matches(ext string) bool { return c.exts.Matches(ext) }

func (c *CSV) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	result, err := c.Text.Decode(data, req)
	if err != nil || !req.AsText {
		return result, err
	}

	text, derr := decodeCharset(capBytes(data, req.MaxBytes), req.Encoding)
	if derr != nil {
		return result, nil
	}
	lines := SplitLines(text)
	rows := len(lines)

	reader := csv.NewReader(strings.NewReader(strings.Join(firstN(lines, 3), "\n")))
	reader.FieldsPerRecord = -1
	if strings.HasSuffix(strings.ToLower(req.Path), ".tsv") {
		reader.Comma = '\t'
	}
	first, rerr := reader.Read()
	if rerr != nil {
		return result, nil
	}

	result.Preview = fmt.Sprintf("CSV: %d columns, %d rows. Headers: %s",
		len(first), rows, strings.Join(firstN(first, 3), ", "))
	return result, nil
}

// YAML previews mapping keys and sequence sizes.
type YAML struct {
	*Text
	exts extensionSet
}

// NewYAML creates the YAML handler.
func NewYAML() *YAML {
	return &YAML{Text: NewText(), exts: newExtensionSet(".yml", ".yaml")}
}

func (y *YAML) Name() string { return "yaml" }

func (y *YAML) Extensions() []string { return y.exts.Extensions() }

func (y *YAML) Matches(ext string) bool { return y.exts.Matches(ext) }

func (y *YAML) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	result, err := y.Text.Decode(data, req)
	if err != nil || !req.AsText {
		return result, err
	}

	capped := capBytes(data, req.MaxBytes)
	var mapping yaml.MapSlice
	if yerr := yaml.Unmarshal(capped, &mapping); yerr == nil && len(mapping) > 0 {
		keys := make([]string, 0, len(mapping))
		for _, item := range mapping {
			keys = append(keys, fmt.Sprintf("%v", item.Key))
		}
		result.Preview = fmt.Sprintf("YAML mapping with keys: %s",
			strings.Join(firstN(keys, 5), ", "))
		return result, nil
	}

	var seq []any
	if yerr := yaml.Unmarshal(capped, &seq); yerr == nil && seq != nil {
		result.Preview = fmt.Sprintf("YAML sequence with %d items", len(seq))
	}
	return result, nil
}

// TOML previews top-level keys.
type TOML struct {
	*Text
	exts extensionSet
}

// NewTOML creates the TOML handler.
func NewTOML() *TOML {
	return &TOML{Text: NewText(), exts: newExtensionSet(".toml")}
}

func (t *TOML) Name() string { return "toml" }

func (t *TOML) Extensions() []string { return t.exts.Extensions() }

func (t *TOML) Matches(ext string) bool { return t.exts.Matches(ext) }

func (t *TOML) Decode(data []byte, req *types.ReadRequest) (*types.ReadResult, error) {
	result, err := t.Text.Decode(data, req)
	if err != nil || !req.AsText {
		return result, err
	}

	var parsed map[string]any
	if terr := toml.Unmarshal(capBytes(data, req.MaxBytes), &parsed); terr != nil || len(parsed) == 0 {
		return result, nil
	}
	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result.Preview = fmt.Sprintf("TOML document with keys: %s",
		strings.Join(firstN(keys, 5), ", "))
	return result, nil
}
