package models

import (
	"database/sql/driver"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
)

// BoolMap is a user id -> flag map stored as a JSON object column.
// Likes and holy grails use it; a user is "on" only while their key is true.
type BoolMap map[string]bool

// Toggle removes userID when it is set, otherwise sets it to true.
// It returns the resulting state.
func (m *BoolMap) Toggle(userID string) bool {
	if *m == nil {
		*m = BoolMap{}
	}
	if (*m)[userID] {
		delete(*m, userID)
		return false
	}
	(*m)[userID] = true
	return true
}

func (m BoolMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]bool(m))
}

func (m BoolMap) Value() (driver.Value, error) {
	b, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *BoolMap) Scan(src any) error {
	raw, err := jsonBytes(src, "{}")
	if err != nil {
		return err
	}
	out := BoolMap{}
	if err := json.Unmarshal(raw, (*map[string]bool)(&out)); err != nil {
		return fmt.Errorf("scan BoolMap: %w", err)
	}
	*m = out
	return nil
}

// IDList is an ordered list of document ids stored as a JSON array column.
type IDList []string

func (l IDList) Contains(id string) bool {
	return slices.Contains(l, id)
}

// Without returns a copy of l with every occurrence of id removed.
func (l IDList) Without(id string) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// IsPermutationOf reports whether l holds exactly the ids of other, in any order.
func (l IDList) IsPermutationOf(other IDList) bool {
	if len(l) != len(other) {
		return false
	}
	a := slices.Clone(l)
	b := slices.Clone(other)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func (l IDList) MarshalJSON() ([]byte, error) {
	return marshalList(l)
}

func (l IDList) Value() (driver.Value, error) {
	return listValue(l)
}

func (l *IDList) Scan(src any) error {
	return scanList(src, (*[]string)(l))
}

// Ingredients is a product's ingredient list. Clients send either a JSON
// array or a single ", "-separated string.
type Ingredients []string

func (in Ingredients) MarshalJSON() ([]byte, error) {
	return marshalList(in)
}

func (in *Ingredients) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*in = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("ingredients must be a list or a comma separated string")
	}
	*in = ParseIngredients(s)
	return nil
}

func (in Ingredients) Value() (driver.Value, error) {
	return listValue(in)
}

func (in *Ingredients) Scan(src any) error {
	return scanList(src, (*[]string)(in))
}

// ParseIngredients splits "a, b, c" into its parts, dropping empty entries.
func ParseIngredients(s string) Ingredients {
	return append(Ingredients{}, splitComma(s)...)
}

func marshalList[T ~[]string](l T) ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func listValue[T ~[]string](l T) (driver.Value, error) {
	b, err := marshalList(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanList(src any, dst *[]string) error {
	raw, err := jsonBytes(src, "[]")
	if err != nil {
		return err
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan list: %w", err)
	}
	*dst = out
	return nil
}

func jsonBytes(src any, empty string) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return []byte(empty), nil
	case string:
		if v == "" {
			return []byte(empty), nil
		}
		return []byte(v), nil
	case []byte:
		if len(v) == 0 {
			return []byte(empty), nil
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", src)
	}
}
