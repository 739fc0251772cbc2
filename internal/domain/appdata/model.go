// Package appdata implements the generic per-app, per-user JSON value store.
package appdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// ValueKind tells which decoding branch produced a Value.
type ValueKind int

const (
	// ValueDecoded means the stored text was valid JSON.
	ValueDecoded ValueKind = iota
	// ValueRaw means the stored text was not JSON and is returned verbatim.
	ValueRaw
)

func (k ValueKind) String() string {
	if k == ValueRaw {
		return "raw"
	}
	return "decoded"
}

// Value is a stored payload after lenient decoding.
type Value struct {
	Kind ValueKind
	JSON json.RawMessage
	Raw  string
}

// DecodeStored interprets the stored text, falling back to the raw text for
// rows that were not written through Encode.
func DecodeStored(text string) Value {
	if json.Valid([]byte(text)) {
		return Value{Kind: ValueDecoded, JSON: json.RawMessage(text)}
	}
	return Value{Kind: ValueRaw, Raw: text}
}

// MarshalJSON renders decoded values as-is and raw values as a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == ValueRaw {
		return json.Marshal(v.Raw)
	}
	if len(v.JSON) == 0 {
		return []byte("null"), nil
	}
	return v.JSON, nil
}

// Encode returns the canonical text form of a JSON payload.
func Encode(payload json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return "", ErrMissingValue
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return "", errors.Join(ErrInvalidValue, err)
	}
	return buf.String(), nil
}

// Entry is one row of the store.
type Entry struct {
	UserID    string
	AppID     string
	Key       string
	Value     string // canonical text encoding
	UpdatedAt int64  // epoch seconds
}

// Repository persists entries keyed by (UserID, AppID, Key).
type Repository interface {
	// Find returns (nil, nil) when no row matches.
	Find(ctx context.Context, userID, appID, key string) (*Entry, error)
	List(ctx context.Context, userID, appID string) ([]Entry, error)
	// Upsert inserts, or overwrites Value and UpdatedAt on key conflict.
	Upsert(ctx context.Context, entry Entry) error
}

var (
	// ErrMissingValue indicates the caller did not supply a value. JSON null is a value.
	ErrMissingValue = errors.New("missing value")
	// ErrInvalidValue indicates the payload is not valid JSON.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnauthenticated indicates the caller has no session.
	ErrUnauthenticated = errors.New("not authenticated")
)
