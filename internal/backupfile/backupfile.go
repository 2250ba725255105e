// Package backupfile encodes backup documents for transport. Plain JSON
// is the default; zstd frames are recognized by their magic bytes.
package backupfile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingZstd Encoding = "zstd"
)

// zstdMagic starts every zstd frame (RFC 8878 section 3.1.1).
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// maxDecodedSize bounds a decompressed restore document.
const maxDecodedSize = 64 << 20

// zstd.Encoder and zstd.Decoder are safe for concurrent EncodeAll/DecodeAll.
var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("backupfile: zstd encoder initialization failed: " + err.Error())
	}
	decoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
	if err != nil {
		panic("backupfile: zstd decoder initialization failed: " + err.Error())
	}
}

func ParseEncoding(raw string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json", "none":
		return EncodingJSON, nil
	case "zstd", "zst":
		return EncodingZstd, nil
	default:
		return "", fmt.Errorf("unknown backup encoding %q", raw)
	}
}

// Encode returns the transport bytes and file name for a JSON document.
// fileName is expected to end in ".json"; zstd output gets ".json.zst".
func Encode(doc []byte, fileName string, enc Encoding) ([]byte, string, error) {
	switch enc {
	case EncodingJSON, "":
		return doc, fileName, nil
	case EncodingZstd:
		return encoder.EncodeAll(doc, nil), fileName + ".zst", nil
	default:
		return nil, "", fmt.Errorf("unsupported backup encoding %q", enc)
	}
}

func IsCompressed(raw []byte) bool {
	return bytes.HasPrefix(raw, zstdMagic)
}

// Decode returns the JSON document inside raw, decompressing when needed.
func Decode(raw []byte) ([]byte, error) {
	if !IsCompressed(raw) {
		return raw, nil
	}
	out, err := decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

// ContentType is the HTTP content type for an encoding.
func ContentType(enc Encoding) string {
	if enc == EncodingZstd {
		return "application/zstd"
	}
	return "application/json"
}
