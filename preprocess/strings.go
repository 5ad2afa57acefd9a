package preprocess

import (
	"fmt"
	"strings"
)

const stringLabel = "_unamed_string"

// LiftStrings hoists every double-quoted literal into a labeled data block
// at the top of the buffer and replaces it with a pointer expression.
// Inside the block newlines are written as \n and spaces as \s. Each
// block is preceded by a jump to its end label so control flow never
// falls into data. Labels are numbered from zero on every call.
func LiftStrings(src string) string {
	var defs []string
	var sb strings.Builder
	last := 0
	for i := 0; i < len(src); i++ {
		if src[i] != '"' {
			continue
		}
		end, ok := stringEnd(src, i)
		if !ok {
			continue
		}
		id := fmt.Sprintf("%s%d", stringLabel, len(defs))
		content := src[i+1 : end]
		content = strings.ReplaceAll(content, "\n", `\n`)
		content = strings.ReplaceAll(content, " ", `\s`)
		defs = append(defs, fmt.Sprintf("goto(%s_end)\n %s: \\%s %s_end:", id, id, content, id))

		sb.WriteString(src[last:i])
		sb.WriteString("pointer(mem, " + id + ")")
		last = end + 1
		i = end
	}
	if len(defs) == 0 {
		return src
	}
	sb.WriteString(src[last:])
	return strings.Join(defs, "\n") + "\n" + sb.String()
}

// stringEnd returns the offset of the quote closing the literal that
// opens at i. A backslash escapes any byte except a line terminator; a
// backslash before one, or end of input, means no literal starts at i.
func stringEnd(src string, i int) (int, bool) {
	for q := i + 1; q < len(src); q++ {
		switch src[q] {
		case '"':
			return q, true
		case '\\':
			if q+1 >= len(src) || src[q+1] == '\n' || src[q+1] == '\r' {
				return 0, false
			}
			q++
		}
	}
	return 0, false
}
