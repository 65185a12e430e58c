package glog

import "io"

// v4Reader decodes the V4 framing: no header-level mode byte, instead each
// entry carries its own mode byte plus, when encrypted, an IV and client
// public key (spec §3 "V4 entry", §4.5).
type v4Reader struct {
	f        io.ReadCloser
	size     int64
	position int64

	inflater *statefulInflater
	keys     *keyAgreement
}

func newV4Reader(f io.ReadCloser, size int64, hexKey string) (*v4Reader, error) {
	keys, err := newKeyAgreement(hexKey)
	if err != nil {
		return nil, err
	}
	r := &v4Reader{
		f:        f,
		size:     size,
		position: headerFixedSize,
		inflater: newStatefulInflater(),
		keys:     keys,
	}
	if err := r.readRemainHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *v4Reader) readRemainHeader() error {
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

// Read implements Reader.Read for V4 framing (spec §4.5). Compression and
// encryption are independent per entry; decrypt runs before inflate (spec
// §4.5 "tie-breaks").
func (r *v4Reader) Read(out []byte) (ReadResult, error) {
	if r.SpaceLeft() < 1+2+8 {
		return eofResult(), nil
	}

	var modeByte [1]byte
	if err := readSafely(r.f, modeByte[:]); err != nil {
		return ReadResult{}, err
	}
	r.position++

	var compress compressMode
	switch modeByte[0] >> 4 {
	case 1:
		compress = compressNone
	case 2:
		compress = compressZlib
	default:
		return needRecover(-2), nil
	}

	var encrypt encryptMode
	switch modeByte[0] & 0x0F {
	case 1:
		encrypt = encryptNone
	case 2:
		encrypt = encryptAes
	default:
		return needRecover(-3), nil
	}

	if encrypt == encryptAes && !r.keys.ready() {
		return ReadResult{}, ErrCipherNotReady
	}

	var payload []byte
	if encrypt == encryptAes {
		m, result, err := r.readEncryptedPayload()
		if err != nil || result.Outcome == NeedRecover {
			return result, err
		}
		payload = m
	} else {
		m, result, err := r.readPlainPayload()
		if err != nil || result.Outcome == NeedRecover {
			return result, err
		}
		payload = m
	}

	var produced int
	var err error
	if compress == compressZlib {
		produced, err = r.inflater.decompress(payload, out)
		if err != nil {
			return ReadResult{}, err
		}
	} else {
		produced = copy(out, payload)
	}

	ok, err := readSync(r.f)
	if err != nil {
		return ReadResult{}, err
	}
	r.position += 8
	if !ok {
		return needRecover(-7), nil
	}

	return success(produced), nil
}

// readEncryptedPayload reads {iv, client pubkey, len, ciphertext} and
// decrypts it. On decrypt failure it returns NeedRecover(-5) without
// reading the trailing sync marker, matching spec §4.5's sequencing
// exactly: the cursor is left past the consumed bytes and resynchronizing
// is the caller's responsibility.
func (r *v4Reader) readEncryptedPayload() ([]byte, ReadResult, error) {
	var iv [16]byte
	if err := readSafely(r.f, iv[:]); err != nil {
		return nil, ReadResult{}, err
	}
	r.position += 16

	var pub compressedPubKey
	if err := readSafely(r.f, pub[:]); err != nil {
		return nil, ReadResult{}, err
	}
	r.position += int64(len(pub))

	length, err := readU16LE(r.f)
	if err != nil {
		return nil, ReadResult{}, err
	}
	r.position += 2

	if length == 0 || int(length) > SingleLogMaxLength {
		return nil, needRecover(-4), nil
	}
	if r.SpaceLeft() < int64(length)+8 {
		return nil, ReadResult{}, &UnexpectedEOFError{Expected: int(length) + 8, Available: int(r.SpaceLeft())}
	}

	ct := make([]byte, length)
	if err := readSafely(r.f, ct); err != nil {
		return nil, ReadResult{}, err
	}
	r.position += int64(length)

	pt, err := r.keys.decrypt(pub, iv[:], ct)
	if err != nil {
		return nil, needRecover(-5), nil
	}
	return pt, ReadResult{}, nil
}

func (r *v4Reader) readPlainPayload() ([]byte, ReadResult, error) {
	length, err := readU16LE(r.f)
	if err != nil {
		return nil, ReadResult{}, err
	}
	r.position += 2

	if length == 0 || int(length) > SingleLogMaxLength {
		return nil, needRecover(-6), nil
	}
	if r.SpaceLeft() < int64(length)+8 {
		return nil, ReadResult{}, &UnexpectedEOFError{Expected: int(length) + 8, Available: int(r.SpaceLeft())}
	}

	plain := make([]byte, length)
	if err := readSafely(r.f, plain); err != nil {
		return nil, ReadResult{}, err
	}
	r.position += int64(length)

	return plain, ReadResult{}, nil
}

func (r *v4Reader) Position() int64 { return r.position }

func (r *v4Reader) SpaceLeft() int64 {
	sl := r.size - r.position
	if sl < 0 {
		return 0
	}
	return sl
}

func (r *v4Reader) SingleLogMaxLength() int { return SingleLogMaxLength }

func (r *v4Reader) Close() error { return r.f.Close() }
