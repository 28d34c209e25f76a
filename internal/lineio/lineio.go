// =============================================================================
// Stock Movement Converter - Bulk Line I/O
// =============================================================================
//
// This module moves movement files between disk and memory:
//   - ReadLines reads a whole file in its declared encoding and splits it
//     into lines
//   - WriteRecords writes records back in canonical ";" form, one per line
//
// ENCODINGS:
//   Producers of movement files typically use windows-1251. The encoding is
//   never guessed; it comes from configuration. Any WHATWG label is accepted
//   ("windows-1251", "cp1251", "utf-8", "koi8-r", ...).
//
// ERRORS:
//   - ErrFileNotFound : the input file does not exist
//   - ErrFileDecode   : the bytes are not valid in the declared encoding
//   - ErrWrite        : the output could not be encoded or written
//
// =============================================================================

package lineio

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/ginjaninja78/stock-movements/internal/record"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrFileDecode      = errors.New("file decode error")
	ErrWrite           = errors.New("write error")
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// DefaultEncoding is the encoding used by the systems that export movements.
const DefaultEncoding = "windows-1251"

var utf8BOM = []byte("\xef\xbb\xbf")

// =============================================================================
// ENCODING LOOKUP
// =============================================================================

// LookupEncoding resolves an encoding label.
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

func isUTF8(enc encoding.Encoding) bool {
	name, err := htmlindex.Name(enc)
	return err == nil && name == "utf-8"
}

// =============================================================================
// READING
// =============================================================================

// ReadLines reads the file at path and returns its lines in order.
//
// PARAMETERS:
//   - path: The input file.
//   - encodingName: The encoding the producer used.
//
// RETURNS:
//   - The lines without terminators. A trailing terminator does not produce
//     an extra empty line; empty lines inside the file are kept.
//   - ErrFileNotFound or ErrFileDecode (wrapped) on failure.
func ReadLines(path, encodingName string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines, err := DecodeLines(data, encodingName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

// DecodeLines converts raw file content to lines.
func DecodeLines(data []byte, encodingName string) ([]string, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileDecode, err)
	}

	var text string
	if isUTF8(enc) {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: content is not valid %s", ErrFileDecode, encodingName)
		}
		text = string(data)
	} else {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileDecode, err)
		}
		// Single-byte decoders map undefined bytes to U+FFFD instead of
		// failing.
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			return nil, fmt.Errorf("%w: content has bytes undefined in %s", ErrFileDecode, encodingName)
		}
		text = string(decoded)
	}

	return splitLines(text), nil
}

func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// =============================================================================
// WRITING
// =============================================================================

// WriteRecords writes records to path in canonical form, overwriting it.
//
// PARAMETERS:
//   - records: The records to write, in output order.
//   - path: The output file.
//   - encodingName: The encoding to write in.
//
// RETURNS:
//   - An error wrapping ErrWrite on any failure.
func WriteRecords(records []record.Record, path, encodingName string) error {
	data, err := EncodeRecords(records, encodingName)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}

// EncodeRecords renders records in canonical form and encodes the result.
func EncodeRecords(records []record.Record, encodingName string) ([]byte, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	var buf strings.Builder
	for _, r := range records {
		buf.WriteString(r.Canonical())
		buf.WriteString("\n")
	}

	if isUTF8(enc) {
		return []byte(buf.String()), nil
	}

	data, err := enc.NewEncoder().Bytes([]byte(buf.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot encode as %s: %w", ErrWrite, encodingName, err)
	}
	return data, nil
}
