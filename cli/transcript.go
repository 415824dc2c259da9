package cli

import (
	"fmt"
	"io"

	"github.com/northway/migrator/migration"
)

// statusMark is the transcript tag for a Step status
func statusMark(s migration.Status) string {
	switch s {
	case migration.StatusApplied:
		return "OK"
	case migration.StatusFailed:
		return "FAIL"
	default:
		return "SKIP"
	}
}

// writeTranscript prints one line per Step result:
//
//	[OK] task_priority AddColumn task.priority — added VARCHAR(20)
func writeTranscript(w io.Writer, r *migration.Report) {
	for _, res := range r.Results {
		fmt.Fprintf(w, "[%s] %s %s %s — %s\n",
			statusMark(res.Status), r.MigrationID, res.Kind, res.Target, res.Message)
	}
}
