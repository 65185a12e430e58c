package glog

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal, stream-wide conditions (spec §7). These end
// decoding of the current file outright; they are never folded into a
// ReadResult.
var (
	// ErrMagicMismatch is returned by Open when the first four bytes of the
	// file are not the Glog magic number.
	ErrMagicMismatch = errors.New("glog: magic number mismatch")

	// ErrCipherNotReady is returned when a V4 file contains at least one
	// AES-encrypted entry but Open was not given a server private key.
	ErrCipherNotReady = errors.New("glog: server private key required to decrypt this entry")

	// ErrSyncMarkerMismatch is returned only from header parsing, where a bad
	// sync marker is fatal (unlike entry bodies, which recover instead).
	ErrSyncMarkerMismatch = errors.New("glog: sync marker mismatch in header")

	// ErrV3EncryptionUnsupported is returned if a V3 header declares the
	// reserved Aes encryption nibble. No V3 entry body ever carries an
	// IV or client public key, so this combination cannot be decoded; the
	// open question in spec §9 resolves it as a format error rather than a
	// silently-ignored mode.
	ErrV3EncryptionUnsupported = errors.New("glog: v3 aes encryption mode is unreachable and unsupported")
)

// UnsupportedVersionError is returned when the version byte following the
// magic number names a version this decoder does not implement.
type UnsupportedVersionError struct {
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("glog: unsupported version 0x%02x", e.Version)
}

// UnexpectedEOFError is returned by readSafely when the stream yields fewer
// bytes than required and then runs dry.
type UnexpectedEOFError struct {
	Expected  int
	Available int
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("glog: unexpected eof: expected %d bytes, got %d", e.Expected, e.Available)
}

// IllegalCompressModeError is returned from V3 header parsing, where an
// unrecognized compression nibble is fatal rather than recoverable.
type IllegalCompressModeError struct {
	Nibble byte
}

func (e *IllegalCompressModeError) Error() string {
	return fmt.Sprintf("glog: illegal compress mode %#x", e.Nibble)
}

// IllegalEncryptModeError is returned from V3 header parsing, where an
// unrecognized encryption nibble is fatal rather than recoverable.
type IllegalEncryptModeError struct {
	Nibble byte
}

func (e *IllegalEncryptModeError) Error() string {
	return fmt.Sprintf("glog: illegal encrypt mode %#x", e.Nibble)
}

// DecompressError wraps a failure from the stateful inflater.
type DecompressError struct {
	Err error
}

func (e *DecompressError) Error() string { return fmt.Sprintf("glog: decompress: %v", e.Err) }
func (e *DecompressError) Unwrap() error { return e.Err }

// DecryptError wraps a structural failure in AES-CFB decryption (bad IV
// length, uninitialized cipher).
type DecryptError struct {
	Err error
}

func (e *DecryptError) Error() string { return fmt.Sprintf("glog: decrypt: %v", e.Err) }
func (e *DecryptError) Unwrap() error { return e.Err }

// PublicKeyDecompressError wraps a failure to parse a compressed secp256k1
// client public key.
type PublicKeyDecompressError struct {
	Err error
}

func (e *PublicKeyDecompressError) Error() string {
	return fmt.Sprintf("glog: public key decompress: %v", e.Err)
}
func (e *PublicKeyDecompressError) Unwrap() error { return e.Err }

// ProtobufError wraps a failure decoding the payload's protocol-buffer wire
// format. The reader layer never treats this as fatal; callers decide
// whether to skip the record or abort (spec §4.7, §7).
type ProtobufError struct {
	Err error
}

func (e *ProtobufError) Error() string { return fmt.Sprintf("glog: protobuf decode: %v", e.Err) }
func (e *ProtobufError) Unwrap() error { return e.Err }
