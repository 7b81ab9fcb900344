package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

// Record is the fixed-shape result of normalizing one response. Every
// declared field is present.
type Record struct {
	schema    string
	order     []string
	values    map[string]any
	defaulted map[string]bool
	missing   []string
	issues    []string
	detail    string
}

// ErrShape is wrapped by every ShapeError.
var ErrShape = errors.New("malformed response")

// ShapeError reports the required fields a response did not carry. Detail
// holds the service's own "error" message when it sent one.
type ShapeError struct {
	Schema string
	Fields []string
	Detail string
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s response missing %s", e.Schema, strings.Join(e.Fields, ", "))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// Normalize extracts every declared field from raw. It never fails:
// missing or malformed fields take their declared default, and numeric
// sequences keep only their finite numeric entries.
func Normalize(raw models.RawResponse, s *Schema) Record {
	rec := extract(map[string]any(raw), s.fields)
	rec.schema = s.name
	rec.issues = s.auditIssues(raw)
	if detail, ok := raw["error"].(string); ok {
		rec.detail = detail
	}
	return rec
}

func extract(raw map[string]any, fields []Field) Record {
	rec := Record{
		order:     make([]string, 0, len(fields)),
		values:    make(map[string]any, len(fields)),
		defaulted: make(map[string]bool),
	}
	for _, f := range fields {
		rec.order = append(rec.order, f.Name)
		v, ok := resolve(raw, f)
		if !ok {
			v = zeroOrDefault(f)
			rec.defaulted[f.Name] = true
			if f.Required {
				rec.missing = append(rec.missing, f.Name)
			}
		}
		rec.values[f.Name] = v
	}
	return rec
}

// resolve tries the primary path then each alternate, returning the first
// value that coerces to the field's kind.
func resolve(raw map[string]any, f Field) (any, bool) {
	for _, p := range append([]string{f.Path}, f.Alt...) {
		src, found := lookup(raw, p)
		if !found {
			continue
		}
		if v, ok := coerce(src, f); ok {
			return v, true
		}
	}
	return nil, false
}

func lookup(raw map[string]any, path string) (any, bool) {
	var cur any = raw
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func coerce(src any, f Field) (any, bool) {
	switch f.Kind {
	case Number:
		return toNumber(src)
	case Numbers:
		items, ok := src.([]any)
		if !ok {
			if nums, ok := src.([]float64); ok {
				items = make([]any, len(nums))
				for i, n := range nums {
					items[i] = n
				}
			} else {
				return nil, false
			}
		}
		out := make([]float64, 0, len(items))
		for _, item := range items {
			if n, ok := toNumber(item); ok {
				out = append(out, n)
			}
		}
		return out, true
	case String:
		str, ok := src.(string)
		if !ok {
			return nil, false
		}
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, str) {
			return nil, false
		}
		return str, true
	case Strings:
		items, ok := src.([]any)
		if !ok {
			if strs, ok := src.([]string); ok {
				return slices.Clone(strs), true
			}
			return nil, false
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out, true
	case Bool:
		b, ok := src.(bool)
		return b, ok
	case Records:
		items, ok := src.([]any)
		if !ok {
			return nil, false
		}
		out := make([]Record, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, extract(m, f.Fields))
		}
		return out, true
	}
	return nil, false
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func zeroOrDefault(f Field) any {
	switch f.Kind {
	case Number:
		if d, ok := f.Default.(float64); ok {
			return d
		}
		return 0.0
	case Numbers:
		if d, ok := f.Default.([]float64); ok {
			return slices.Clone(d)
		}
		return []float64{}
	case String:
		if d, ok := f.Default.(string); ok {
			return d
		}
		return ""
	case Strings:
		if d, ok := f.Default.([]string); ok {
			return slices.Clone(d)
		}
		return []string{}
	case Bool:
		if d, ok := f.Default.(bool); ok {
			return d
		}
		return false
	default:
		return []Record{}
	}
}

func (s *Schema) auditIssues(raw models.RawResponse) []string {
	if raw == nil {
		return []string{"(root): response is empty"}
	}
	body, err := json.Marshal(raw)
	if err != nil {
		return []string{"(root): " + err.Error()}
	}
	result, err := s.audit.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []string{"(root): " + err.Error()}
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return issues
}

// Schema returns the name of the schema that produced the record.
func (r Record) Schema() string {
	return r.schema
}

// Number returns a Number field, or 0 if name is not a Number field.
func (r Record) Number(name string) float64 {
	v, _ := r.values[name].(float64)
	return v
}

// Numbers returns a copy of a Numbers field.
func (r Record) Numbers(name string) []float64 {
	v, _ := r.values[name].([]float64)
	return slices.Clone(v)
}

// String returns a String field.
func (r Record) String(name string) string {
	v, _ := r.values[name].(string)
	return v
}

// Strings returns a copy of a Strings field.
func (r Record) Strings(name string) []string {
	v, _ := r.values[name].([]string)
	return slices.Clone(v)
}

// Bool returns a Bool field.
func (r Record) Bool(name string) bool {
	v, _ := r.values[name].(bool)
	return v
}

// Records returns the elements of a Records field.
func (r Record) Records(name string) []Record {
	v, _ := r.values[name].([]Record)
	return slices.Clone(v)
}

// Defaulted reports whether name fell back to its declared default.
func (r Record) Defaulted(name string) bool {
	return r.defaulted[name]
}

// DefaultedFields lists defaulted fields in declaration order.
func (r Record) DefaultedFields() []string {
	var out []string
	for _, name := range r.order {
		if r.defaulted[name] {
			out = append(out, name)
		}
	}
	return out
}

// Missing lists the required fields that fell back, in declaration order.
func (r Record) Missing() []string {
	return slices.Clone(r.missing)
}

// Err returns a *ShapeError when a required field is missing, nil otherwise.
func (r Record) Err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return &ShapeError{Schema: r.schema, Fields: slices.Clone(r.missing), Detail: r.detail}
}

// Issues returns the audit findings for the raw response. They describe
// shape problems the defaults covered for; they are not errors.
func (r Record) Issues() []string {
	return slices.Clone(r.issues)
}
