package models

import (
	"bytes"
	"encoding/json"
)

// RawDecimal holds a decimal amount exactly as it appeared on the wire. The
// API sends amounts as JSON strings, but numbers are accepted too. Parsing
// is left to the mapper so that bad values surface as mapping errors.
type RawDecimal string

func (d *RawDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = RawDecimal(s)
		return nil
	}
	*d = RawDecimal(data)
	return nil
}

func (d RawDecimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}
