package tbd

import "bytes"

var (
	documentStart = []byte("---")
	documentEnd   = []byte("...")
)

// Detect reports whether data looks like a text-based stub: after trailing
// spaces, tabs, CRs and LFs are ignored it must start with "---" and end
// with "...".
func Detect(data []byte) bool {
	n := len(data)
	for n > 0 && isTrailingSpace(data[n-1]) {
		n--
	}
	data = data[:n]
	return bytes.HasPrefix(data, documentStart) && bytes.HasSuffix(data, documentEnd)
}

func isTrailingSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
