// Package media finds and classifies images and videos attached to words.
package media

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Kind classifies a media file.
type Kind string

const (
	KindImage       Kind = "image"
	KindVideo       Kind = "video"
	KindUnsupported Kind = "unsupported"
)

var (
	imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg"}
	videoExts = []string{".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm"}

	// Lookup tries these, images first.
	lookupImageExts = []string{".jpg", ".jpeg", ".png", ".gif"}
	lookupVideoExts = []string{".mp4", ".avi", ".mov"}
)

// Item is a media file found on disk.
type Item struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
}

// Classify returns the kind of path based on its extension.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(imageExts, ext):
		return KindImage
	case slices.Contains(videoExts, ext):
		return KindVideo
	default:
		return KindUnsupported
	}
}

// Lookup searches dir for a file named after the lower-cased word, trying
// image extensions before video ones.
func Lookup(dir, word string) (Item, bool) {
	name := strings.ToLower(strings.TrimSpace(word))
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return Item{}, false
	}
	for _, ext := range append(slices.Clone(lookupImageExts), lookupVideoExts...) {
		p := filepath.Join(dir, name+ext)
		if isFile(p) {
			return Item{Path: p, Kind: Classify(p)}, true
		}
	}
	return Item{}, false
}

// Resolve returns the media for an entry: its explicit reference when that
// file exists, otherwise a Lookup in dir.
func Resolve(dir, word string, ref *string) (Item, bool) {
	if ref != nil && *ref != "" && isFile(*ref) {
		return Item{Path: *ref, Kind: Classify(*ref)}, true
	}
	return Lookup(dir, word)
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
