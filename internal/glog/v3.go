package glog

import "io"

// compressMode is the high-nibble compression scheme of a mode byte. The
// numeric encoding differs between V3 (header-level) and V4 (per-entry) —
// spec §3 is explicit that the nibble values are not shared between the two
// formats.
type compressMode byte

const (
	compressNone compressMode = iota
	compressZlib
)

// encryptMode is the low-nibble encryption scheme of a mode byte.
type encryptMode byte

const (
	encryptNone encryptMode = iota
	encryptAes
)

// v3Reader decodes the V3 framing: a single header-level mode byte applies
// to every entry in the file, and entries carry no per-entry mode (spec
// §3 "V3 header tail", §4.4).
type v3Reader struct {
	f        io.ReadCloser
	size     int64
	position int64

	compress compressMode
	encrypt  encryptMode

	inflater *statefulInflater
}

func newV3Reader(f io.ReadCloser, size int64) (*v3Reader, error) {
	r := &v3Reader{
		f:        f,
		size:     size,
		position: headerFixedSize,
		inflater: newStatefulInflater(),
	}
	if err := r.readRemainHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *v3Reader) readRemainHeader() error {
	var modeByte [1]byte
	if err := readSafely(r.f, modeByte[:]); err != nil {
		return err
	}
	r.position++

	hi := modeByte[0] >> 4
	switch hi {
	case 0:
		r.compress = compressNone
	case 1:
		r.compress = compressZlib
	default:
		return &IllegalCompressModeError{Nibble: hi}
	}

	lo := modeByte[0] & 0x0F
	switch lo {
	case 0:
		r.encrypt = encryptNone
	case 1:
		r.encrypt = encryptAes
	default:
		return &IllegalEncryptModeError{Nibble: lo}
	}

	nameLen, err := readU16LE(r.f)
	if err != nil {
		return err
	}
	r.position += 2

	if nameLen > 0 {
		name := make([]byte, nameLen)
		if err := readSafely(r.f, name); err != nil {
			return err
		}
	}
	r.position += int64(nameLen)

	ok, err := readSync(r.f)
	if err != nil {
		return err
	}
	r.position += 8
	if !ok {
		return ErrSyncMarkerMismatch
	}
	return nil
}

// Read implements Reader.Read for V3 framing (spec §4.4).
func (r *v3Reader) Read(out []byte) (ReadResult, error) {
	if r.encrypt == encryptAes {
		return ReadResult{}, ErrV3EncryptionUnsupported
	}

	if r.SpaceLeft() < 2+1+8 {
		return eofResult(), nil
	}

	length, err := readU16LE(r.f)
	if err != nil {
		return ReadResult{}, err
	}
	r.position += 2

	if length == 0 || int(length) > SingleLogMaxLength {
		return needRecover(-2), nil
	}
	if r.SpaceLeft() < int64(length)+8 {
		return ReadResult{}, &UnexpectedEOFError{Expected: int(length) + 8, Available: int(r.SpaceLeft())}
	}

	scratch := make([]byte, length)
	if err := readSafely(r.f, scratch); err != nil {
		return ReadResult{}, err
	}
	r.position += int64(length)

	var produced int
	if r.compress == compressZlib {
		produced, err = r.inflater.decompress(scratch, out)
		if err != nil {
			return ReadResult{}, err
		}
	} else {
		produced = copy(out, scratch)
	}

	ok, err := readSync(r.f)
	if err != nil {
		return ReadResult{}, err
	}
	r.position += 8
	if !ok {
		return needRecover(-3), nil
	}

	return success(produced), nil
}

func (r *v3Reader) Position() int64 { return r.position }

func (r *v3Reader) SpaceLeft() int64 {
	sl := r.size - r.position
	if sl < 0 {
		return 0
	}
	return sl
}

func (r *v3Reader) SingleLogMaxLength() int { return SingleLogMaxLength }

func (r *v3Reader) Close() error { return r.f.Close() }
