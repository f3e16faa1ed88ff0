package quill

import (
	"path"
	"strings"
)

// NormalizePath returns p as a normalised slash-separated path: cleaned
// (no "." or ".." segments where avoidable, no duplicate slashes, no
// trailing slash except for the root), matching spec.md §3's "normalised
// filesystem paths" used as module registry keys.
//
// Paths in quill are always slash-separated regardless of host OS,
// mirroring pongo2's loader.Abs()/filepath-based resolution but kept
// OS-independent since module paths are also used as map keys and as
// web paths.
func NormalizePath(p string) string {
	if p == "" {
		return "."
	}
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return cleaned
}

// JoinPath joins elems into a single normalised path.
func JoinPath(elems ...string) string {
	return NormalizePath(path.Join(elems...))
}

// ParentPath returns the normalised parent directory of p ("." if p has
// no parent).
func ParentPath(p string) string {
	return NormalizePath(path.Dir(NormalizePath(p)))
}

// RelativePath resolves name relative to base: absolute names are
// returned unchanged (normalised); relative names are joined against
// base's parent directory, matching the "resolved relative to the
// template's directory" rule used for layout chaining (spec.md §4.5).
// Grounded on pongo2's
// LocalFilesystemLoader.Abs.
func RelativePath(base, name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if path.IsAbs(name) {
		return NormalizePath(name)
	}
	if base == "" {
		return NormalizePath(name)
	}
	return JoinPath(ParentPath(base), name)
}

// IsAbsPath reports whether p is an absolute (slash-rooted) path.
func IsAbsPath(p string) bool {
	return path.IsAbs(strings.ReplaceAll(p, "\\", "/"))
}
