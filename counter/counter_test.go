package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		input  string
		expect string
		final  int
	}{
		{"no tokens", 0, "plain text", "plain text", 0},
		{"read", 3, "L$counter:", "L3:", 3},
		{"increment is removed", 0, "a$counter++b", "ab", 1},
		{"decrement is removed", 0, "a$counter--b", "ab", -1},
		{"increment then read", 0, "$counter++ $counter", " 1", 1},
		{"read then increment", 0, "$counter $counter++", "0 ", 1},
		{"read inc read", 5, "$counter $counter++ $counter", "5  6", 6},
		{"single plus is literal", 0, "$counter+1", "$counter+1", 0},
		{"single minus is literal", 2, "$counter-1 $counter", "$counter-1 2", 2},
		{"identifier suffix still reads", 7, "$counterX", "7X", 7},
		{"twice incremented", 0, "$counter++$counter++$counter", "2", 2},
		{"doubled sigil", 4, "$$counter", "$4", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Counter{value: tt.start}
			assert.Equal(t, tt.expect, c.Expand(tt.input))
			assert.Equal(t, tt.final, c.Value())
		})
	}
}

func TestExpand_PersistsAcrossCalls(t *testing.T) {
	var c Counter
	assert.Equal(t, "L0", c.Expand("L$counter$counter++"))
	assert.Equal(t, "L1", c.Expand("L$counter$counter++"))
	assert.Equal(t, "L2", c.Expand("L$counter$counter++"))
	c.Reset()
	assert.Equal(t, 0, c.Value())
	assert.Equal(t, "L0", c.Expand("L$counter"))
}
