package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	n := Ptr(int32(42))
	assert.Equal(t, int32(42), *n)

	s := Ptr("hello")
	assert.Equal(t, "hello", *s)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"101", "102", "103"}, SplitList("101,102,103"))
	assert.Equal(t, []string{"101", "102"}, SplitList(" 101 , 102 "))
	assert.Equal(t, []string{"101"}, SplitList("101,,"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("   "))
}

func TestEqualsIgnoreCase(t *testing.T) {
	assert.True(t, EqualsIgnoreCase("Rebate Fijo", "REBATE FIJO"))
	assert.True(t, EqualsIgnoreCase("  abc ", "ABC"))
	assert.False(t, EqualsIgnoreCase("abc", "abd"))
	assert.True(t, EqualsIgnoreCase("", "  "))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Equal(t, []int32{3, 1, 2}, Dedupe([]int32{3, 1, 3, 2, 1}))
	assert.Nil(t, Dedupe[string](nil))
	assert.Equal(t, []string{"x"}, Dedupe([]string{"x"}))
}
