package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	a := Sum([]byte("hello | a greeting"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, Sum([]byte("hello | a greeting")))
	assert.NotEqual(t, a, Sum([]byte("hello | a greeting\n")))
}

func TestMatches(t *testing.T) {
	etag := ETag("abc")
	assert.Equal(t, `"abc"`, etag)

	tests := []struct {
		header string
		want   bool
	}{
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"x", "abc"`, true},
		{`*`, true},
		{`"abd"`, false},
		{`abc`, false},
		{``, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.header, etag), tt.header)
	}
}
