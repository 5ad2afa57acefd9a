package scanner

// Block is the result of ExtractBlock.
type Block struct {
	// Inner is the text between the opening delimiter that established
	// depth 1 and the delimiter that returned depth to 0.
	Inner string
	// End is the offset just past the closing delimiter, or len(src)
	// when the block is unterminated.
	End int
	// Closed is false when depth never returned to zero.
	Closed bool
}

// ExtractBlock scans src from start for a balanced open/close block.
// Delimiters inside string literals do not count. When the block is not
// terminated, Inner holds everything after the first opening delimiter
// and End is len(src); an unterminated block is not an error.
func ExtractBlock(src string, start int, open, close byte) Block {
	depth := 0
	inner := -1
	sc := NewAt(src, start)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			continue
		}
		switch ch {
		case open:
			depth++
			if inner < 0 {
				inner = sc.Pos() + 1
			}
		case close:
			depth--
			if depth == 0 {
				return Block{Inner: src[inner:sc.Pos()], End: sc.Pos() + 1, Closed: true}
			}
		}
	}
	if inner < 0 {
		return Block{End: len(src)}
	}
	return Block{Inner: src[inner:], End: len(src)}
}

// IsOpenBracket reports whether ch is an opening bracket/paren/brace.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

// CloserOf returns the closing delimiter for an opening one, or 0.
func CloserOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

// IsSpace reports whether ch is ASCII whitespace.
func IsSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// SkipSpace returns the offset of the first non-whitespace byte at or
// after i.
func SkipSpace(s string, i int) int {
	for i < len(s) && IsSpace(s[i]) {
		i++
	}
	return i
}
