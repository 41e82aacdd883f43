// Package records decodes JSON record collections, optionally zstd
// compressed, into generic maps.
package records

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"
)

// Record is one decoded JSON object.
type Record = map[string]any

// EncodingZstd is the Content-Encoding value for zstd bodies.
const EncodingZstd = "zstd"

// MaxDecodedBytes bounds the decompressed size of a zstd payload.
const MaxDecodedBytes = 256 << 20

// ErrTooLarge is returned when a payload decompresses past its limit.
var ErrTooLarge = errors.New("decoded payload too large")

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var parserPool fastjson.ParserPool

// Parse decodes a JSON array of objects. A single object yields one record.
// Numbers decode as float64.
func Parse(data []byte) ([]Record, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	switch v.Type() {
	case fastjson.TypeObject:
		return []Record{toRecord(v)}, nil
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]Record, len(arr))
		for i, item := range arr {
			if item.Type() != fastjson.TypeObject {
				return nil, fmt.Errorf("element %d is %s, want object", i, item.Type())
			}
			out[i] = toRecord(item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("json %s is not a record collection", v.Type())
	}
}

func toRecord(v *fastjson.Value) Record {
	o, _ := v.Object()
	rec := make(Record, o.Len())
	o.Visit(func(key []byte, val *fastjson.Value) {
		rec[string(key)] = toValue(val)
	})
	return rec
}

func toValue(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return f
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]any, len(arr))
		for i, item := range arr {
			out[i] = toValue(item)
		}
		return out
	case fastjson.TypeObject:
		return toRecord(v)
	default:
		return nil
	}
}

// IsZstd reports whether data starts with a zstd frame.
func IsZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Decompress decodes a zstd payload of at most limit decoded bytes.
func Decompress(data []byte, limit int64) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxWindow(uint64(max(limit, zstd.MinWindowSize))),
	)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := io.ReadAll(io.LimitReader(dec, limit+1))
	switch {
	case errors.Is(err, zstd.ErrWindowSizeExceeded), errors.Is(err, zstd.ErrDecoderSizeExceeded):
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, limit)
	case err != nil:
		return nil, fmt.Errorf("zstd decode: %w", err)
	case int64(len(out)) > limit:
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, limit)
	}
	return out, nil
}

// Decode parses a body that may be zstd compressed. encoding is the
// Content-Encoding; compressed data is also detected by its magic number.
func Decode(data []byte, encoding string) ([]Record, error) {
	if encoding == EncodingZstd || IsZstd(data) {
		var err error
		if data, err = Decompress(data, MaxDecodedBytes); err != nil {
			return nil, err
		}
	} else if encoding != "" && encoding != "identity" {
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
	return Parse(data)
}

// ReadFile reads and decodes a JSON or JSON.zst file.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	recs, err := Decode(data, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}
