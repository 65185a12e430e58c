package glog

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadSafely(t *testing.T) {
	t.Run("fills buffer across short reads", func(t *testing.T) {
		r := &stutterReader{chunks: [][]byte{{1, 2}, {3}, {4, 5}}}
		buf := make([]byte, 5)
		if err := readSafely(r, buf); err != nil {
			t.Fatalf("readSafely: %v", err)
		}
		if !bytes.Equal(buf, []byte{1, 2, 3, 4, 5}) {
			t.Fatalf("got %v", buf)
		}
	})

	t.Run("short stream fails with UnexpectedEOFError", func(t *testing.T) {
		r := bytes.NewReader([]byte{1, 2})
		buf := make([]byte, 5)
		err := readSafely(r, buf)
		var eofErr *UnexpectedEOFError
		if !errors.As(err, &eofErr) {
			t.Fatalf("want *UnexpectedEOFError, got %v", err)
		}
		if eofErr.Expected != 5 || eofErr.Available != 2 {
			t.Fatalf("got %+v", eofErr)
		}
	})
}

func TestReadU16LE(t *testing.T) {
	r := bytes.NewReader([]byte{0x34, 0x12})
	v, err := readU16LE(r)
	if err != nil {
		t.Fatalf("readU16LE: %v", err)
	}
	if v != 0x1234 {
		t.Fatalf("got %#x, want 0x1234", v)
	}
}

func TestCheckSync(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"exact match", syncMarker[:], true},
		{"one byte flipped", func() []byte {
			b := syncMarker
			b[3] ^= 0xFF
			return b[:]
		}(), false},
		{"wrong length", []byte{1, 2, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkSync(tt.buf); got != tt.want {
				t.Fatalf("checkSync(%v) = %v, want %v", tt.buf, got, tt.want)
			}
		})
	}
}

// stutterReader returns its chunks one Read call at a time, exercising
// readSafely's looping behavior.
type stutterReader struct {
	chunks [][]byte
}

func (s *stutterReader) Read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.chunks[0])
	s.chunks[0] = s.chunks[0][n:]
	if len(s.chunks[0]) == 0 {
		s.chunks = s.chunks[1:]
	}
	return n, nil
}
