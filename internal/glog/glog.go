// Package glog decodes the Glog binary log-file format: header parsing,
// per-entry framing, mode dispatch, continuous deflate decompression across
// entries, ECDH-based per-entry decryption, sync-marker recovery, and decode
// of the resulting protocol-buffer payload.
package glog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Open reads the magic number and version byte and constructs the matching
// V3 or V4 reader (spec §4.6 "Dispatcher"). hexKey is the server's 64-hex
// private key, required only if the file turns out to contain AES-encrypted
// V4 entries; pass an empty string when no key is configured.
func Open(path string, hexKey string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("glog: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("glog: stat %s: %w", path, err)
	}

	reader, err := open(f, info.Size(), hexKey)
	if err != nil {
		f.Close()
		return nil, err
	}
	return reader, nil
}

// open is Open's testable core: it takes an already-open stream and size
// rather than a path, so tests can hand it an in-memory fixture.
func open(f io.ReadCloser, size int64, hexKey string) (Reader, error) {
	var magic [4]byte
	if err := readSafely(f, magic[:]); err != nil {
		return nil, err
	}
	if magic != magicNumber {
		return nil, ErrMagicMismatch
	}

	var version [1]byte
	if err := readSafely(f, version[:]); err != nil {
		return nil, err
	}

	switch version[0] {
	case VersionRecovery:
		return newV3Reader(f, size)
	case VersionCipher:
		return newV4Reader(f, size, hexKey)
	default:
		return nil, &UnsupportedVersionError{Version: version[0]}
	}
}

// OpenBytes is a convenience wrapper for tests and in-process callers that
// already hold the whole file in memory.
func OpenBytes(data []byte, hexKey string) (Reader, error) {
	return open(nopCloser{bytes.NewReader(data)}, int64(len(data)), hexKey)
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

// IsFatal reports whether err represents one of the stream-wide integrity
// failures that end decoding of the current file (spec §7), as opposed to a
// NeedRecover condition folded into a ReadResult.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var unsupportedVersion *UnsupportedVersionError
	var unexpectedEOF *UnexpectedEOFError
	if errors.As(err, &unsupportedVersion) || errors.As(err, &unexpectedEOF) {
		return true
	}
	return errors.Is(err, ErrMagicMismatch) ||
		errors.Is(err, ErrCipherNotReady) ||
		errors.Is(err, ErrSyncMarkerMismatch) ||
		errors.Is(err, ErrV3EncryptionUnsupported)
}
