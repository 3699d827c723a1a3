package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStudentURL(t *testing.T) {
	assert.Equal(t,
		"https://fc.example.com/instructor/student/u-123",
		StudentURL("https://fc.example.com", "u-123"),
	)
	// trailing slash on base does not double up
	assert.Equal(t,
		"https://fc.example.com/instructor/student/u-123",
		StudentURL("https://fc.example.com/", "u-123"),
	)
	// ids are path-escaped
	assert.Equal(t,
		"https://fc.example.com/instructor/student/a%2Fb",
		StudentURL("https://fc.example.com", "a/b"),
	)
}

func TestExtractStudentID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n", ""},
		{"full url", "https://fc.example.com/instructor/student/u-123", "u-123"},
		{"full url with query", "https://fc.example.com/instructor/student/u-123?ref=qr", "u-123"},
		{"http url", "http://localhost:8000/instructor/student/abc", "abc"},
		{"unrelated url", "https://fc.example.com/dashboard", ""},
		{"bare path", "/instructor/student/u-123", "u-123"},
		{"escaped id", "https://fc.example.com/instructor/student/a%2Fb", "a/b"},
		{"literal id", "u-123", "u-123"},
		{"literal id padded", "  u-123  ", "u-123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractStudentID(tt.text))
		})
	}
}

func TestExtractStudentID_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-zA-Z0-9 _./-]{1,40}`).Draw(t, "id").(string)
		got := ExtractStudentID(StudentURL("https://fc.example.com", id))
		if got != id {
			t.Fatalf("round trip changed id: %q -> %q", id, got)
		}
	})
}

func TestPNG(t *testing.T) {
	png, err := PNG("https://fc.example.com/instructor/student/u-123", 256)
	require.NoError(t, err)
	// PNG magic bytes
	require.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
