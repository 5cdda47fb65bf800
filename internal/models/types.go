package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a slice of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// TimeRange is a daily opening window in HH:MM format.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours maps a lowercase weekday name ("monday".."sunday") to its
// opening window. Missing days are closed.
type WorkingHours map[string]TimeRange

// Value implements driver.Valuer.
func (w WorkingHours) Value() (driver.Value, error) {
	if w == nil {
		w = WorkingHours{}
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner.
func (w *WorkingHours) Scan(value interface{}) error {
	if value == nil {
		*w = WorkingHours{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	default:
		return fmt.Errorf("cannot scan %T into WorkingHours", value)
	}
}

// RatingSummary is the derived rating aggregate carried by doctors and clinics.
type RatingSummary struct {
	Average float64 `gorm:"default:0" json:"average"`
	Count   int     `gorm:"default:0" json:"count"`
}
