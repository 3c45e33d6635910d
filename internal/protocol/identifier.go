package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type idForm uint8

const (
	idAbsent idForm = iota
	idNull
	idString
	idNumber
)

// Identifier 服务端分配的消息 id。
// 服务端可能发字符串、数字或 null，这里记住原始形态，重新编码时保持一致；
// 零值表示字段不存在，配合 omitzero 省略。
type Identifier struct {
	value string
	form  idForm
}

// NewIdentifier 构造字符串形态的 id
func NewIdentifier(v string) Identifier {
	return Identifier{value: v, form: idString}
}

// NewNumericIdentifier 构造数字形态的 id
func NewNumericIdentifier(v int64) Identifier {
	return Identifier{value: strconv.FormatInt(v, 10), form: idNumber}
}

// NullIdentifier 显式的 "id":null
func NullIdentifier() Identifier {
	return Identifier{form: idNull}
}

// IsZero 字段不存在
func (id Identifier) IsZero() bool { return id.form == idAbsent }

func (id Identifier) IsNull() bool { return id.form == idNull }

// Valid 携带了可用作游标的值
func (id Identifier) Valid() bool { return id.form == idString || id.form == idNumber }

func (id Identifier) String() string { return id.value }

// Equal 值与形态都相同才相等
func (id Identifier) Equal(other Identifier) bool { return id == other }

func (id Identifier) MarshalJSON() ([]byte, error) {
	switch id.form {
	case idNumber:
		return []byte(id.value), nil
	case idString:
		return json.Marshal(id.value)
	}
	return []byte("null"), nil
}

func (id *Identifier) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("identifier: empty input")
	}
	switch {
	case string(b) == "null":
		*id = NullIdentifier()
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("identifier: %w", err)
		}
		*id = NewIdentifier(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("identifier: want string or number, got %s", b)
	}
	*id = Identifier{value: n.String(), form: idNumber}
	return nil
}
