package glog

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Level is the log_level field of the decoded payload (spec §3).
type Level int32

const (
	LevelInfo Level = iota
	LevelDebug
	LevelVerbose
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "Info"
	case LevelDebug:
		return "Debug"
	case LevelVerbose:
		return "Verbose"
	case LevelWarn:
		return "Warn"
	case LevelError:
		return "Error"
	default:
		return fmt.Sprintf("Level(%d)", int32(l))
	}
}

// Record is the decoded protocol-buffer log entry (spec §3 "Protocol-buffer
// payload"). Missing strings default to empty, missing integers to zero.
type Record struct {
	Type      int32
	Timestamp string
	Level     Level
	Pid       int32
	Tid       string
	Tag       string
	Msg       string
}

const (
	fieldType      = protowire.Number(1)
	fieldTimestamp = protowire.Number(2)
	fieldLogLevel  = protowire.Number(3)
	fieldPid       = protowire.Number(4)
	fieldTid       = protowire.Number(5)
	fieldTag       = protowire.Number(6)
	fieldMsg       = protowire.Number(7)
)

// DecodeRecord decodes the length-prefixless wire message described in
// spec §3/§4.7 using the low-level protowire reader. Unknown fields are
// skipped rather than rejected.
func DecodeRecord(b []byte) (Record, error) {
	var rec Record

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
		}
		b = b[n:]

		switch num {
		case fieldType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
			}
			rec.Type = int32(v)
			b = b[n:]
		case fieldTimestamp:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
			}
			rec.Timestamp = string(v)
			b = b[n:]
		case fieldLogLevel:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
			}
			rec.Level = Level(int32(v))
			b = b[n:]
		case fieldPid:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
			}
			rec.Pid = int32(v)
			b = b[n:]
		case fieldTid:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
			}
			rec.Tid = string(v)
			b = b[n:]
		case fieldTag:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
			}
			rec.Tag = string(v)
			b = b[n:]
		case fieldMsg:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
			}
			rec.Msg = string(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Record{}, &ProtobufError{Err: protowire.ParseError(n)}
			}
			b = b[n:]
		}
	}

	return rec, nil
}
