package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList stores a list of strings as a jsonb column. Used for the
// returnability condition allow-lists and product tags.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

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
		return errors.New("unsupported type for StringList")
	}
}

// GormDataType tells the migrator which column type to use
func (StringList) GormDataType() string {
	return "jsonb"
}

// Contains reports whether s is a member of the list
func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}
