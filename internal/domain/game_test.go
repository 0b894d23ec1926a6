package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGame_MatchesTarget(t *testing.T) {
	game := &Game{ID: "f1_23", Name: "F1 23"}

	tests := []struct {
		target string
		want   bool
	}{
		{"F1 23", true},
		{"f1 23", true},
		{"F1_23", true},
		{"f1-23", true},
		{"f1_23", true},
		{"F1 22", false},
		{"F1 2023", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, game.MatchesTarget(tt.target))
		})
	}
}

func TestGame_MatchesTarget_NameOnly(t *testing.T) {
	game := &Game{ID: "codies-2023", Name: "F1 23"}

	assert.True(t, game.MatchesTarget("F1 23"))
	assert.True(t, game.MatchesTarget("CODIES-2023"))
	assert.False(t, game.MatchesTarget("F1 24"))
}

func TestGame_ExecutablePath(t *testing.T) {
	game := &Game{InstallPath: "/games/f1", Executable: "F1_23.exe"}
	assert.Equal(t, filepath.Join("/games/f1", "F1_23.exe"), game.ExecutablePath())

	game.Executable = "/opt/f1/F1_23.exe"
	assert.Equal(t, "/opt/f1/F1_23.exe", game.ExecutablePath())

	game.Executable = ""
	assert.Empty(t, game.ExecutablePath())
}

func TestParseLinkMethod(t *testing.T) {
	tests := []struct {
		in   string
		want LinkMethod
	}{
		{"symlink", LinkSymlink},
		{"hardlink", LinkHardlink},
		{"COPY", LinkCopy},
		{"", LinkSymlink},
		{"bogus", LinkSymlink},
	}

	for _, tt := range tests {
		if got := ParseLinkMethod(tt.in); got != tt.want {
			t.Errorf("ParseLinkMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
