package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidth(t *testing.T) {
	assert.Equal(t, 0, Width(""))
	assert.Equal(t, 5, Width("hello"))
	assert.Equal(t, 4, Width("日本"))
	assert.Equal(t, 1, Width("é"), "combining mark joins its base")
	assert.Equal(t, 2, Width("a\nb"))
}

func TestMeasure(t *testing.T) {
	w, h := Measure("one\nthree\n")
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)

	w, h = Measure("")
	assert.Equal(t, 0, w)
	assert.Equal(t, 1, h)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "日", Truncate("日本", 3))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "hi", Truncate("hi", 10))
}

func TestGraphemes(t *testing.T) {
	var clusters []string
	var widths []int
	Graphemes("a日é", func(c string, w int) bool {
		clusters = append(clusters, c)
		widths = append(widths, w)
		return true
	})
	assert.Equal(t, []string{"a", "日", "é"}, clusters)
	assert.Equal(t, []int{1, 2, 1}, widths)

	count := 0
	Graphemes("abc", func(string, int) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}
