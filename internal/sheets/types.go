package sheets

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text accepts a JSON string or number. Sheet cells holding ids or phone
// numbers come back as numbers.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(b)
	return nil
}

// Flag accepts true, "TRUE" and "true". Anything else is false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	*f = Flag(s == "true" || s == "TRUE")
	return nil
}

// Number accepts a JSON number or numeric string. Blank and invalid values are zero.
type Number int64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = Number(v)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*n = Number(int64(v))
		return nil
	}
	*n = 0
	return nil
}

// List decodes an array and treats any other JSON value as empty.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		*l = nil
		return nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}
