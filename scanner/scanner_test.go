package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(src string, inString bool) string {
	sc := New(src)
	var out []byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() == inString {
			out = append(out, ch)
		}
	}
	return string(out)
}

func TestCodeScanner_BasicIteration(t *testing.T) {
	sc := New("abc")
	ch, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('a'), ch)
	assert.Equal(t, 0, sc.Pos())

	ch, ok = sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('b'), ch)
	assert.Equal(t, 1, sc.Pos())

	ch, ok = sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('c'), ch)

	_, ok = sc.Next()
	assert.False(t, ok)
}

func TestCodeScanner_Strings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		inString string
		inCode   string
	}{
		{"double quoted", `x = "hi" + y`, `"hi"`, `x =  + y`},
		{"single quoted", `x = 'hi' + y`, `'hi'`, `x =  + y`},
		{"escaped double quote", `"a\"b" + x`, `"a\"b"`, ` + x`},
		{"escaped single quote", `'a\'b' + x`, `'a\'b'`, ` + x`},
		{"double inside single", `'"a"' x`, `'"a"'`, ` x`},
		{"single inside double", `"it's" x`, `"it's"`, ` x`},
		{"escaped backslash", `"a\\" x`, `"a\\"`, ` x`},
		{"backslash outside string", `a\"b"c`, `"b"`, `a\c`},
		{"adjacent strings", `"a""b"`, `"a""b"`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inString, collect(tt.input, true))
			assert.Equal(t, tt.inCode, collect(tt.input, false))
		})
	}
}

func TestCodeScanner_NewAt(t *testing.T) {
	sc := NewAt(`"x" {y}`, 4)
	ch, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('{'), ch)
	assert.False(t, sc.InString())
	assert.Equal(t, 4, sc.Pos())
}

func TestStep_TransitionTable(t *testing.T) {
	assert.Equal(t, InDouble, Step(Normal, '"'))
	assert.Equal(t, InSingle, Step(Normal, '\''))
	assert.Equal(t, Normal, Step(Normal, '\\'))
	assert.Equal(t, EscDouble, Step(InDouble, '\\'))
	assert.Equal(t, InDouble, Step(EscDouble, '"'))
	assert.Equal(t, InSingle, Step(EscSingle, '\''))
	assert.Equal(t, Normal, Step(InSingle, '\''))
	assert.Equal(t, InSingle, Step(InSingle, '"'))
}

func TestExtractBlock(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		start  int
		open   byte
		close  byte
		inner  string
		end    int
		closed bool
	}{
		{"simple", "{abc} rest", 0, '{', '}', "abc", 5, true},
		{"nested", "x {a{b}c} y", 0, '{', '}', "a{b}c", 9, true},
		{"brace in double string", `{a "}" b}`, 0, '{', '}', `a "}" b`, 9, true},
		{"brace in single string", `{a '}' b}`, 0, '{', '}', `a '}' b`, 9, true},
		{"escaped quote in string", `{"\"}" }`, 0, '{', '}', `"\"}" `, 8, true},
		{"parens", "f(a, (b), c) d", 1, '(', ')', "a, (b), c", 12, true},
		{"unterminated", "{abc {d}", 0, '{', '}', "abc {d}", 8, false},
		{"no opener", "abc", 0, '{', '}', "", 3, false},
		{"start offset skips earlier opener", "{a} {b}", 3, '{', '}', "b", 7, true},
		{"stray closer first", "a)b(c)", 0, '(', ')', "c)", 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ExtractBlock(tt.src, tt.start, tt.open, tt.close)
			assert.Equal(t, tt.inner, b.Inner)
			assert.Equal(t, tt.end, b.End)
			assert.Equal(t, tt.closed, b.Closed)
		})
	}
}

func TestExtractBlock_EndPointsPastCloser(t *testing.T) {
	srcs := []string{
		`{}`,
		`{"{"}`,
		`{'}'}`,
		`{a{b{c}}d}tail`,
		`{"a\\"}x`,
	}
	for _, src := range srcs {
		b := ExtractBlock(src, 0, '{', '}')
		require.True(t, b.Closed, src)
		assert.Equal(t, byte('}'), src[b.End-1], src)
		assert.Equal(t, "{"+b.Inner+"}", src[:b.End], src)
	}
}

func TestCloserOf(t *testing.T) {
	assert.Equal(t, byte(')'), CloserOf('('))
	assert.Equal(t, byte(']'), CloserOf('['))
	assert.Equal(t, byte('}'), CloserOf('{'))
	assert.Equal(t, byte(0), CloserOf('<'))
	assert.True(t, IsOpenBracket('['))
	assert.False(t, IsOpenBracket(']'))
}

func TestSkipSpace(t *testing.T) {
	assert.Equal(t, 4, SkipSpace("a \t\nb", 1))
	assert.Equal(t, 1, SkipSpace("ab", 1))
	assert.Equal(t, 3, SkipSpace("a  ", 1))
	assert.True(t, IsSpace('\v'))
	assert.False(t, IsSpace('_'))
}
