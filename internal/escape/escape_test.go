package escape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		also string
		want string
	}{
		{name: "safe", in: "/a-b_c.d~", want: "/a-b_c.d~"},
		{name: "space", in: "a b", want: "a%20b"},
		{name: "percent", in: "100%", want: "100%25"},
		{name: "multibyte", in: "ä", want: "%C3%A4"},
		{name: "extra characters", in: "a/b?c", also: "/?", want: "a%2Fb%3Fc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var also func(int) bool
			if tt.also != "" {
				also = func(i int) bool { return strings.IndexByte(tt.also, tt.in[i]) >= 0 }
			}
			assert.Equal(t, tt.want, Escape(tt.in, also))
		})
	}
	assert.Equal(t, "a%20b", Unsafe("a b"))
	assert.Equal(t, "%2F", Percent("/"))
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a%20b", "a b"},
		{"%c3%A4", "ä"},
		{"a+b", "a+b"},
		{"bad%zz", "bad%zz"},
		{"end%2", "end%2"},
		{"%", "%"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Unescape(tt.in))
		})
	}
}
