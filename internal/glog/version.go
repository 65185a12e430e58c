package glog

// Version bytes follow the 4-byte magic number. Only V3 and V4 have ever
// shipped a reader; the two earlier constants are carried for documentation
// and so UnsupportedVersionError can name them in diagnostics.
const (
	// VersionInitial was the first on-disk layout. No reader was ever
	// written for it; files in this version are not supported.
	VersionInitial byte = 0x01

	// VersionFixPosition corrected a position-tracking bug in VersionInitial.
	// Also never implemented by any reader.
	VersionFixPosition byte = 0x02

	// VersionRecovery is V3: mode byte carries compression/encryption
	// nibbles at the header level, NeedRecover-based per-entry recovery.
	VersionRecovery byte = 0x03

	// VersionCipher is V4: per-entry mode byte, optional ECDH+AES-128-CFB
	// encryption.
	VersionCipher byte = 0x04
)
