package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const ApplicationJson = "application/json"

// MessageCodec 信封编解码器
type MessageCodec interface {
	Name() string
	Encode(w io.Writer, m *Envelope) error
	Decode(r io.Reader, m *Envelope, maxSize int) error
}

// JSONCodec 线上格式：每帧一个 JSON 对象
type JSONCodec struct{}

func (JSONCodec) Name() string { return ApplicationJson }

func (JSONCodec) Encode(w io.Writer, m *Envelope) error {
	if m == nil {
		return fmt.Errorf("envelope is nil")
	}
	if err := Validate(m); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(m)
}

func (JSONCodec) Decode(r io.Reader, m *Envelope, maxSize int) error {
	rr := r
	if maxSize > 0 {
		rr = io.LimitReader(r, int64(maxSize))
	}
	br := &peekReader{r: rr}
	dec := json.NewDecoder(br)
	dec.DisallowUnknownFields()
	if err := dec.Decode(m); err != nil {
		if br.first != 0 && br.first != '{' {
			return fmt.Errorf("payload not object")
		}
		return fmt.Errorf("json decode: %w", err)
	}
	return Validate(m)
}

// Marshal 编码为单帧字节，不带结尾换行
func Marshal(c MessageCodec, m *Envelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, m); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal 解码单帧
func Unmarshal(c MessageCodec, data []byte, maxSize int) (*Envelope, error) {
	var env Envelope
	if err := c.Decode(bytes.NewReader(data), &env, maxSize); err != nil {
		return nil, err
	}
	return &env, nil
}

// peekReader 记录第一个非空白字节，用于区分 "不是对象" 与普通语法错误
type peekReader struct {
	r     io.Reader
	first byte
}

func (p *peekReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if p.first == 0 {
		for _, c := range b[:n] {
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				p.first = c
				break
			}
		}
	}
	return n, err
}
