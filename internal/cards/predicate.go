package cards

import (
	"fmt"
	"strconv"
)

// Tri is the three-valued result of a predicate evaluation.
// 알 수 없는 필드는 매칭도 실패도 아님
type Tri int

const (
	TriFalse Tri = iota
	TriTrue
	TriUnknown
)

// Predicate is a structured trigger condition over feature fields
type Predicate interface {
	Eval(fields map[string]interface{}) Tri
}

// Equals matches when the field equals the value
type Equals struct {
	Field string
	Value interface{}
}

// Eval implements Predicate
func (p Equals) Eval(fields map[string]interface{}) Tri {
	v, ok := fields[p.Field]
	if !ok {
		return TriUnknown
	}
	if looseEqual(v, p.Value) {
		return TriTrue
	}
	return TriFalse
}

// In matches when the field equals any of the values
type In struct {
	Field  string
	Values []interface{}
}

// Eval implements Predicate
func (p In) Eval(fields map[string]interface{}) Tri {
	v, ok := fields[p.Field]
	if !ok {
		return TriUnknown
	}
	for _, want := range p.Values {
		if looseEqual(v, want) {
			return TriTrue
		}
	}
	return TriFalse
}

// Range matches when the numeric field falls in [Min, Max] (양끝 포함, nil은 무제한)
type Range struct {
	Field string
	Min   *float64
	Max   *float64
}

// Eval implements Predicate
func (p Range) Eval(fields map[string]interface{}) Tri {
	v, ok := fields[p.Field]
	if !ok {
		return TriUnknown
	}
	n, ok := toFloat(v)
	if !ok {
		return TriUnknown
	}
	if p.Min != nil && n < *p.Min {
		return TriFalse
	}
	if p.Max != nil && n > *p.Max {
		return TriFalse
	}
	return TriTrue
}

// Any matches when any child matches (OR)
type Any []Predicate

// Eval implements Predicate: 하나라도 참이면 참, 전부 거짓이면 거짓, 그 외 불명
func (p Any) Eval(fields map[string]interface{}) Tri {
	sawUnknown := false
	for _, child := range p {
		switch child.Eval(fields) {
		case TriTrue:
			return TriTrue
		case TriUnknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return TriUnknown
	}
	return TriFalse
}

// All matches when every child matches (AND)
type All []Predicate

// Eval implements Predicate: 하나라도 거짓이면 거짓, 전부 참이면 참, 그 외 불명
func (p All) Eval(fields map[string]interface{}) Tri {
	sawUnknown := false
	for _, child := range p {
		switch child.Eval(fields) {
		case TriFalse:
			return TriFalse
		case TriUnknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return TriUnknown
	}
	return TriTrue
}

// ParsePredicate builds a predicate from a decoded YAML/JSON map.
// 형식:
//
//	{any: [...]} | {all: [...]}
//	{field: 이름, eq: 값} | {field: 이름, in: [값...]} | {field: 이름, range: {min: n, max: n}}
func ParsePredicate(raw map[string]interface{}) (Predicate, error) {
	if children, ok := raw["any"]; ok {
		list, err := parseChildren(children)
		if err != nil {
			return nil, err
		}
		return Any(list), nil
	}
	if children, ok := raw["all"]; ok {
		list, err := parseChildren(children)
		if err != nil {
			return nil, err
		}
		return All(list), nil
	}

	field, _ := raw["field"].(string)
	if field == "" {
		return nil, fmt.Errorf("predicate에 field 없음: %v", raw)
	}

	if v, ok := raw["eq"]; ok {
		return Equals{Field: field, Value: v}, nil
	}
	if v, ok := raw["in"]; ok {
		values, ok := toSlice(v)
		if !ok {
			return nil, fmt.Errorf("in은 배열이어야 함: %v", v)
		}
		return In{Field: field, Values: values}, nil
	}
	if v, ok := raw["range"]; ok {
		bounds, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("range는 맵이어야 함: %v", v)
		}
		r := Range{Field: field}
		if minV, ok := bounds["min"]; ok {
			if n, ok := toFloat(minV); ok {
				r.Min = &n
			}
		}
		if maxV, ok := bounds["max"]; ok {
			if n, ok := toFloat(maxV); ok {
				r.Max = &n
			}
		}
		return r, nil
	}

	return nil, fmt.Errorf("predicate 연산자 없음: %v", raw)
}

func parseChildren(v interface{}) ([]Predicate, error) {
	items, ok := toSlice(v)
	if !ok {
		return nil, fmt.Errorf("any/all은 배열이어야 함: %v", v)
	}
	out := make([]Predicate, 0, len(items))
	for _, item := range items {
		m, ok := toStringMap(item)
		if !ok {
			return nil, fmt.Errorf("predicate 항목이 맵이 아님: %v", item)
		}
		child, err := ParsePredicate(m)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func toSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

// toStringMap accepts both YAML (map[string]interface{}) and
// legacy map[interface{}]interface{} decodings
func toStringMap(v interface{}) (map[string]interface{}, bool) {
	if m, ok := v.(map[string]interface{}); ok {
		return m, true
	}
	if m, ok := v.(map[interface{}]interface{}); ok {
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	}
	return nil, false
}

// looseEqual compares numbers numerically, everything else as strings
func looseEqual(a, b interface{}) bool {
	if an, ok := toFloat(a); ok {
		if bn, ok := toFloat(b); ok {
			return an == bn
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case bool:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
