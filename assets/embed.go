// Package assets embeds the default word list and the how-to-play text so
// the game runs without any files on disk.
package assets

import (
	"embed"
	"io"
	"strings"
)

//go:embed words.txt howto.txt
var FS embed.FS

// Words opens the embedded default word list. The caller closes it.
func Words() (io.ReadCloser, error) {
	return FS.Open("words.txt")
}

// HowToPlay returns the rules text shown by the front ends.
func HowToPlay() string {
	b, err := FS.ReadFile("howto.txt")
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(b), "\n")
}
