// Package output renders decoded Glog records as human-readable lines
// (original_source/src/main.rs::format_log, a supplemented feature — spec.md
// itself treats the output formatter as an external collaborator, §6).
package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mobileops/glogread/internal/glog"
)

// FormatLine renders one record as
// "YYYY-MM-DD HH:MM:SS.mmm [Level] [tag] {pid:tid} -- msg", falling back to
// the raw timestamp string if it isn't a parseable millisecond count.
func FormatLine(rec glog.Record) string {
	return fmt.Sprintf("%s [%s] [%s] {%d:%s} -- %s",
		formatTimestamp(rec.Timestamp), rec.Level, rec.Tag, rec.Pid, rec.Tid, rec.Msg)
}

func formatTimestamp(raw string) string {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw
	}
	t := time.UnixMilli(ms).UTC()
	return t.Format("2006-01-02 15:04:05.000")
}
