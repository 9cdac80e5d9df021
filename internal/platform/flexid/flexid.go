package flexid

import (
	"strconv"
	"strings"
)

// ID is a snowflake-style identifier that tolerates numeric JSON input.
// Documents written by older tooling carry ids as raw numbers; every read
// coerces them back to the canonical string form so the rest of the system
// only ever sees one representation.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*id = ""
		return nil
	}

	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(unquoted))
		return nil
	}

	// Bare number: large snowflakes may lose precision through float64,
	// so parse the token text directly.
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		raw = raw[:dot]
	}
	*id = ID(raw)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}

// Normalize coerces a value decoded as any into the canonical string form.
func Normalize(v any) ID {
	switch value := v.(type) {
	case string:
		return ID(strings.TrimSpace(value))
	case float64:
		return ID(strconv.FormatInt(int64(value), 10))
	case int64:
		return ID(strconv.FormatInt(value, 10))
	case int:
		return ID(strconv.Itoa(value))
	default:
		return ""
	}
}
