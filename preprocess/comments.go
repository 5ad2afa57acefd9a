package preprocess

import "strings"

// StripComments removes // line comments. A comment ends before the next
// newline, carriage return or tab. String literals are not special: a //
// inside quotes starts a comment too, because this pass runs before
// string lifting.
func StripComments(src string) string {
	if !strings.Contains(src, "//") {
		return src
	}
	var sb strings.Builder
	sb.Grow(len(src))
	for {
		idx := strings.Index(src, "//")
		if idx < 0 {
			sb.WriteString(src)
			return sb.String()
		}
		sb.WriteString(src[:idx])
		src = src[idx:]
		end := strings.IndexAny(src, "\n\r\t")
		if end < 0 {
			return sb.String()
		}
		src = src[end:]
	}
}
