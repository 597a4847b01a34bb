package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "Auto Review", s.Name)
	require.NotEmpty(t, s.Nav)
	assert.Equal(t, Link{Label: "Home", Href: "/"}, s.Nav[0])
	assert.NotEmpty(t, s.Footer.Links)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "name: X\nnav:\n  - label: A\n    href: /a\n", false},
		{"missing name", "nav: []\n", true},
		{"link without href", "name: X\nnav:\n  - label: A\n", true},
		{"not yaml", "name: [", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActive(t *testing.T) {
	tests := []struct {
		href, path string
		want       bool
	}{
		{"/", "/", true},
		{"/", "/posts", false},
		{"/posts", "/posts", true},
		{"/posts", "/posts/gt500", true},
		{"/posts", "/postscript", false},
		{"/compare", "/posts", false},
	}
	for _, tt := range tests {
		t.Run(tt.href+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Active(tt.href, tt.path))
		})
	}
}
