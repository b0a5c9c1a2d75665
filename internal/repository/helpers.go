package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// nullableFloatToValue converts a *float64 to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the value.
func nullableFloatToValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// itemIDToValue stores an item reference. Only integer ids can name a
// stored row; anything else is NULL.
func itemIDToValue(id *domain.ItemID) any {
	if id == nil {
		return nil
	}
	n, ok := id.Int()
	if !ok {
		return nil
	}
	return n
}

func itemIDFromNull(v sql.NullInt64) *domain.ItemID {
	if !v.Valid {
		return nil
	}
	id := domain.ItemID(fmt.Sprintf("%d", v.Int64))
	return &id
}

func marshalJSONColumn(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalJSONColumn(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// nowUTC returns the current UTC time truncated to the stored precision.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
