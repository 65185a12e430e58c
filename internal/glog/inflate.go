package glog

import (
	"bytes"
	"compress/flate"
	"io"
)

// maxDictWindow mirrors DEFLATE's 32 KiB sliding window: no back-reference
// can ever reach further back than this, so the dictionary fed to Reset
// never needs to retain more.
const maxDictWindow = 32 * 1024

// statefulInflater is a raw-deflate decode context that survives across
// many decompress calls, reproducing the producer's single continuous
// deflate stream with SYNC_FLUSH boundaries between entries (spec §4.2).
//
// compress/flate has no public API for "feed more bytes into the same
// stream"; instead each call resets the flate.NewReader decompressor onto a new
// byte source while replaying the last up-to-32KiB of prior output as the
// dictionary via the Resetter interface. This reproduces the same
// back-reference behavior a persistent stream would have, because DEFLATE's
// back-references never look further back than the window size.
type statefulInflater struct {
	fr       io.ReadCloser
	resetter flate.Resetter
	dict     []byte
	totalIn  uint64
	totalOut uint64
}

func newStatefulInflater() *statefulInflater {
	fr := flate.NewReader(bytes.NewReader(nil))
	return &statefulInflater{
		fr:       fr,
		resetter: fr.(flate.Resetter),
	}
}

// decompress feeds in through the shared raw-deflate context and writes up
// to len(out) bytes of decompressed output, returning how much it produced.
// Not fully consuming in is tolerated; callers pass exactly one entry's
// compressed bytes per call, matching one SYNC_FLUSH segment.
func (s *statefulInflater) decompress(in []byte, out []byte) (int, error) {
	if err := s.resetter.Reset(bytes.NewReader(in), s.dict); err != nil {
		return 0, &DecompressError{Err: err}
	}

	produced := 0
	for produced < len(out) {
		n, err := s.fr.Read(out[produced:])
		produced += n
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return produced, &DecompressError{Err: err}
		}
		if n == 0 {
			break
		}
	}

	s.totalIn += uint64(len(in))
	s.totalOut += uint64(produced)
	s.advanceDict(out[:produced])
	return produced, nil
}

func (s *statefulInflater) advanceDict(produced []byte) {
	combined := make([]byte, 0, len(s.dict)+len(produced))
	combined = append(combined, s.dict...)
	combined = append(combined, produced...)
	if len(combined) > maxDictWindow {
		combined = combined[len(combined)-maxDictWindow:]
	}
	s.dict = combined
}

// reset reinitializes the inflater, discarding dictionary state. Used only
// on explicit, caller-driven recovery; never invoked by normal reads.
func (s *statefulInflater) reset() {
	s.dict = nil
	s.totalIn = 0
	s.totalOut = 0
}
