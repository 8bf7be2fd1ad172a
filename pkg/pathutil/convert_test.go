package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{"inside root", "/home/user/project/src/main.go", "/home/user/project", "src/main.go"},
		{"outside root stays absolute", "/other/location/file.go", "/home/user/project", "/other/location/file.go"},
		{"already relative", "src/main.go", "/home/user/project", "src/main.go"},
		{"empty path", "", "/home/user/project", ""},
		{"empty root", "/home/user/project/a.go", "", "/home/user/project/a.go"},
		{"root itself", "/home/user/project", "/home/user/project", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToRelative(tt.absPath, tt.rootDir))
		})
	}
}
