package logic

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/mobileops/glogread/internal/config"
)

func u16le(n int) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(n))
	return b
}

// buildV3PlainFile constructs a minimal, uncompressed, unencrypted V3 Glog
// file containing one entry whose payload is a protobuf-encoded record.
func buildV3PlainFile(t *testing.T, rec []byte) []byte {
	t.Helper()
	var magic = [4]byte{0x1B, 0xAD, 0xC0, 0xDE}
	var sync = [8]byte{0xB7, 0xDB, 0xE7, 0xDB, 0x80, 0xAD, 0xD9, 0x57}

	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(0x03) // version V3
	buf.WriteByte(0x00) // mode: compress=None, encrypt=None
	buf.Write(u16le(3))
	buf.WriteString("log")
	buf.Write(sync[:])

	buf.Write(u16le(len(rec)))
	buf.Write(rec)
	buf.Write(sync[:])

	return buf.Bytes()
}

// buildProtobufRecord hand-encodes the wire schema from spec §3 (field 1
// = type, field 7 = msg) using the same protowire package the production
// decoder uses.
func buildProtobufRecord(typ int32, msg string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(typ))
	b = protowire.AppendTag(b, 7, protowire.BytesType)
	b = protowire.AppendString(b, msg)
	return b
}

func writeZipWithEntry(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	wr, err := w.Create(name)
	if err != nil {
		t.Fatalf("zip create entry: %v", err)
	}
	if _, err := wr.Write(content); err != nil {
		t.Fatalf("zip write entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return path
}

func TestRunDecodesAndWritesRecords(t *testing.T) {
	payload := buildProtobufRecord(1, "hello world")
	glogBytes := buildV3PlainFile(t, payload)
	zipPath := writeZipWithEntry(t, "async-20260101.glog", glogBytes)

	outPath := filepath.Join(t.TempDir(), "out.log")
	cfg := &config.Config{
		Input:    []string{zipPath},
		Output:   outPath,
		Parallel: 2,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	stats, err := Run(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesScanned != 1 || stats.FilesErrored != 0 || stats.EntriesWritten != 1 {
		t.Fatalf("got %+v", stats)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "hello world") {
		t.Fatalf("output = %q, want it to contain %q", data, "hello world")
	}
}

func TestRunAppliesTypeFilter(t *testing.T) {
	keep := buildProtobufRecord(1, "keep me")
	drop := buildProtobufRecord(2, "drop me")
	var glogBytes []byte
	glogBytes = append(glogBytes, buildV3PlainFile(t, keep)...)

	// The archive holds one plaintext file with two entries, one of each
	// type, so the filter is exercised without any deflate dictionary concern.
	var magic = [4]byte{0x1B, 0xAD, 0xC0, 0xDE}
	var syncMarker = [8]byte{0xB7, 0xDB, 0xE7, 0xDB, 0x80, 0xAD, 0xD9, 0x57}
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(0x03)
	buf.WriteByte(0x00)
	buf.Write(u16le(3))
	buf.WriteString("log")
	buf.Write(syncMarker[:])
	buf.Write(u16le(len(keep)))
	buf.Write(keep)
	buf.Write(syncMarker[:])
	buf.Write(u16le(len(drop)))
	buf.Write(drop)
	buf.Write(syncMarker[:])

	zipPath := writeZipWithEntry(t, "async-20260101.glog", buf.Bytes())

	outPath := filepath.Join(t.TempDir(), "out.log")
	cfg := &config.Config{
		Input:    []string{zipPath},
		Output:   outPath,
		Types:    []int32{1},
		Parallel: 1,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	stats, err := Run(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.EntriesWritten != 1 {
		t.Fatalf("EntriesWritten = %d, want 1", stats.EntriesWritten)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "keep me") || strings.Contains(string(data), "drop me") {
		t.Fatalf("output = %q", data)
	}
}
