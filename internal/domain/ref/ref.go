// Package ref decodes entity references the API sends in several shapes.
package ref

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an entity id. It decodes from a JSON string, a number, or an
// object carrying an "id" field (a populated relation), and always encodes
// as a string.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
	case '{':
		var obj struct {
			ID ID `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*id = obj.ID
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("ref: unsupported id %s", b)
		}
		if i, err := n.Int64(); err == nil {
			*id = ID(strconv.FormatInt(i, 10))
		} else {
			*id = ID(n.String())
		}
	}
	return nil
}
