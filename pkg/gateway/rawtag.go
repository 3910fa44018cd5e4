package gateway

import (
	"bytes"
	"strconv"
)

const soh = 0x01

// ExtractField scans a raw tag-value message for "<tag>=" and returns the
// bytes up to the next SOH, or buffer end when the terminator is missing.
// It is the fallback for message types that have no structured decoder and
// never fails on malformed input; absent or empty fields report !ok.
//
// The scan matches the first byte-level occurrence of "<tag>=", so a tag
// number that is a proper suffix of another tag, or that appears inside a
// field value, can be misidentified. Known limitation, covered by a test.
func ExtractField(buf []byte, tag int) (string, bool) {
	pattern := make([]byte, 0, 8)
	pattern = strconv.AppendInt(pattern, int64(tag), 10)
	pattern = append(pattern, '=')

	offset := 0
	for offset < len(buf) {
		idx := bytes.Index(buf[offset:], pattern)
		if idx < 0 {
			break
		}
		start := offset + idx + len(pattern)
		end := bytes.IndexByte(buf[start:], soh)
		if end < 0 {
			end = len(buf) - start
		}
		if end > 0 {
			return string(buf[start : start+end]), true
		}
		offset = start
	}
	return "", false
}
