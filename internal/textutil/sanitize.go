package textutil

import (
	"path/filepath"
	"strconv"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. Names that reduce to nothing or to a dot entry
// become "photo".
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
	switch name {
	case "", ".", "..":
		return "photo"
	}
	return name
}

// UniqueNamer hands out names that have not been returned before. A repeated
// name gets " (2)", " (3)" and so on inserted before its extension.
type UniqueNamer struct {
	seen map[string]struct{}
}

func NewUniqueNamer() *UniqueNamer {
	return &UniqueNamer{seen: make(map[string]struct{})}
}

// Next returns name, or a numbered variant when name was already used.
// Comparison ignores case so archives stay extractable on case-insensitive
// filesystems.
func (u *UniqueNamer) Next(name string) string {
	if _, taken := u.seen[strings.ToLower(name)]; !taken {
		u.seen[strings.ToLower(name)] = struct{}{}
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := base + " (" + strconv.Itoa(i) + ")" + ext
		if _, taken := u.seen[strings.ToLower(candidate)]; !taken {
			u.seen[strings.ToLower(candidate)] = struct{}{}
			return candidate
		}
	}
}
