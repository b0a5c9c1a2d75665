package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ItemID identifies a backlog item. The backend issues integer ids but the
// client treats them as opaque text: 42 and "42" are the same id. Ids that
// look like integers are encoded back as JSON numbers.
type ItemID string

// IsZero reports whether the id is empty.
func (id ItemID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

func (id ItemID) String() string {
	return string(id)
}

// Int returns the integer value of id when it is an integer literal.
func (id ItemID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

// Ptr returns a pointer to a copy of id.
func (id ItemID) Ptr() *ItemID {
	return &id
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("item id must be a string or a number, got %s", b)
		}
		*id = ItemID(n.String())
		return nil
	}
}

func (id ItemID) MarshalYAML() (any, error) {
	if n, ok := id.Int(); ok {
		return n, nil
	}
	return string(id), nil
}

func (id *ItemID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: item id must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = ItemID(node.Value)
	return nil
}

// SameID reports whether a and b refer to the same non-empty id.
func SameID(a *ItemID, b ItemID) bool {
	return a != nil && !a.IsZero() && *a == b
}
