package output

import (
	"strings"
	"testing"

	"github.com/mobileops/glogread/internal/glog"
)

func TestFormatLineParsesMillisecondTimestamp(t *testing.T) {
	rec := glog.Record{
		Timestamp: "1700000000000",
		Level:     glog.LevelWarn,
		Pid:       1234,
		Tid:       "main",
		Tag:       "net",
		Msg:       "connected",
	}
	line := FormatLine(rec)
	if !strings.Contains(line, "[Warn]") || !strings.Contains(line, "[net]") ||
		!strings.Contains(line, "{1234:main}") || !strings.HasSuffix(line, "-- connected") {
		t.Fatalf("got %q", line)
	}
}

func TestFormatLineFallsBackOnUnparseableTimestamp(t *testing.T) {
	rec := glog.Record{Timestamp: "not-a-number", Msg: "x"}
	line := FormatLine(rec)
	if !strings.HasPrefix(line, "not-a-number ") {
		t.Fatalf("got %q, want raw timestamp fallback prefix", line)
	}
}
