package lineio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/stock-movements/internal/batch"
	"github.com/ginjaninja78/stock-movements/internal/record"
)

const sample = "Списанный товар;01.01.2023;Товар A;10;Причина;123\r\n" +
	"Поступивший товар;02.02.2023;Товар B;20;100,50;456\r\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestReadLinesWindows1251(t *testing.T) {
	data, err := charmap.Windows1251.NewEncoder().Bytes([]byte(sample))
	assert.NoError(t, err)
	path := writeFile(t, "in.csv", data)

	lines, err := ReadLines(path, "windows-1251")
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"Списанный товар;01.01.2023;Товар A;10;Причина;123",
		"Поступивший товар;02.02.2023;Товар B;20;100,50;456",
	}, lines)

	// cp1251 is an alias.
	again, err := ReadLines(path, "cp1251")
	assert.NoError(t, err)
	assert.Equal(t, lines, again)
}

func TestReadLinesUTF8WithBOM(t *testing.T) {
	path := writeFile(t, "in.csv", append([]byte("\xef\xbb\xbf"), sample...))

	lines, err := ReadLines(path, "utf-8")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, "Списанный товар;01.01.2023;Товар A;10;Причина;123", lines[0])
}

func TestReadLinesKeepsInnerBlankLines(t *testing.T) {
	path := writeFile(t, "in.csv", []byte("a\n\nb"))

	lines, err := ReadLines(path, "utf-8")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b"}, lines)
}

func TestReadLinesEmptyFile(t *testing.T) {
	path := writeFile(t, "in.csv", nil)

	lines, err := ReadLines(path, "windows-1251")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(lines))
}

func TestReadLinesErrors(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "missing.csv"), "windows-1251")
	assert.True(t, errors.Is(err, ErrFileNotFound))

	// windows-1251 bytes read as UTF-8.
	data, err := charmap.Windows1251.NewEncoder().Bytes([]byte(sample))
	assert.NoError(t, err)
	path := writeFile(t, "in.csv", data)
	_, err = ReadLines(path, "utf-8")
	assert.True(t, errors.Is(err, ErrFileDecode))

	// 0x98 is undefined in windows-1251.
	path = writeFile(t, "bad.csv", []byte{'a', 0x98, '\n'})
	_, err = ReadLines(path, "windows-1251")
	assert.True(t, errors.Is(err, ErrFileDecode))

	_, err = ReadLines(path, "no-such-encoding")
	assert.True(t, errors.Is(err, ErrFileDecode))
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
}

func TestWriteRecordsRoundTrip(t *testing.T) {
	b := batch.NewManager().DecodeAll([]string{
		"Списанный товар;01.01.2023;Товар A;10;Причина;123",
		"Поступивший товар;02.02.2023;Товар B;20;100,5;456",
	})
	assert.False(t, b.HasFailures())

	path := filepath.Join(t.TempDir(), "out.csv")
	assert.NoError(t, WriteRecords(b.Records, path, "windows-1251"))

	lines, err := ReadLines(path, "windows-1251")
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"Списанный товар;01.01.2023;Товар A;10;Причина;123",
		"Поступивший товар;02.02.2023;Товар B;20;100.50;456",
	}, lines)

	again := batch.NewManager().DecodeAll(lines)
	assert.False(t, again.HasFailures())
	for i := range b.Records {
		assert.Equal(t, b.Records[i], again.Records[i])
	}
}

func TestWriteRecordsOverwrites(t *testing.T) {
	path := writeFile(t, "out.csv", []byte("old content that is longer than the new one\n"))

	r, err := record.NewWrittenOff("01.01.2023", "A", 1, "r", 1)
	assert.NoError(t, err)
	assert.NoError(t, WriteRecords([]record.Record{r}, path, "utf-8"))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "Списанный товар;01.01.2023;A;1;r;1\n", string(data))
}

func TestWriteRecordsErrors(t *testing.T) {
	r, err := record.NewWrittenOff("01.01.2023", "Товар 😀", 1, "r", 1)
	assert.NoError(t, err)

	// The emoji has no windows-1251 representation.
	err = WriteRecords([]record.Record{r}, filepath.Join(t.TempDir(), "out.csv"), "windows-1251")
	assert.True(t, errors.Is(err, ErrWrite))

	err = WriteRecords(nil, filepath.Join(t.TempDir(), "missing", "out.csv"), "utf-8")
	assert.True(t, errors.Is(err, ErrWrite))
}
