package index

import (
	"encoding/binary"
)

// key = invTime(8) + runID, so a cursor walks runs newest first
func makeRunKey(startedUnixNano int64, runID string) []byte {
	buf := make([]byte, 8, 8+len(runID))
	binary.BigEndian.PutUint64(buf, ^uint64(startedUnixNano))
	return append(buf, runID...)
}

func runIDFromKey(k []byte) string {
	if len(k) <= 8 {
		return ""
	}
	return string(k[8:])
}
