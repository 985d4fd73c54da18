// Package credential загружает файл кошелька, которым бот логинится на сайте.
package credential

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrNotFound    = errors.New("wallet file not found")
	ErrMissingKeys = errors.New("wallet file is missing public_key or secret_key")
)

// Wallet — публичный идентификатор и секрет. Оба поля в файле могут быть
// строкой или массивом байт (формат keypair из solana-keygen).
type Wallet struct {
	PublicKey Key `json:"public_key"`
	SecretKey Key `json:"secret_key"`
}

// Key хранит значение поля в исходном JSON-виде.
type Key struct {
	raw json.RawMessage
	str string
}

func (k *Key) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*k = Key{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = Key{raw: append(json.RawMessage(nil), data...), str: s}
	case '[':
		var b []int
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("key must be a string or a byte list: %w", err)
		}
		for _, v := range b {
			if v < 0 || v > 255 {
				return fmt.Errorf("key byte %d out of range", v)
			}
		}
		compact, err := json.Marshal(b)
		if err != nil {
			return err
		}
		*k = Key{raw: compact}
	default:
		return fmt.Errorf("key must be a string or a byte list, got %s", data)
	}
	return nil
}

// Empty reports whether the field was absent, null, "" or [].
func (k Key) Empty() bool {
	if k.raw == nil {
		return true
	}
	s := string(k.raw)
	return s == `""` || s == `[]`
}

// Text — значение в том виде, в каком его вводят в форму логина: строка как есть,
// массив байт компактным JSON ("[1,2,3]").
func (k Key) Text() string {
	if k.str != "" {
		return k.str
	}
	return string(k.raw)
}

// String не раскрывает содержимое, чтобы секрет не попал в лог через %v.
func (k Key) String() string {
	if k.Empty() {
		return "<empty>"
	}
	return "<redacted>"
}

// Load reads and validates the wallet file. Any error here is fatal for startup.
func Load(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read wallet %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes wallet JSON.
func Parse(data []byte) (*Wallet, error) {
	var w Wallet
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode wallet: %w", err)
	}
	if w.PublicKey.Empty() || w.SecretKey.Empty() {
		return nil, ErrMissingKeys
	}
	return &w, nil
}
