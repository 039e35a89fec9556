package domain

import "strings"

// Category is a named classification a dream may belong to.
type Category struct {
	ID   int64
	Name string
}

// Tag is a free-form label; dreams and tags are many-to-many.
type Tag struct {
	ID   int64
	Name string
}

// NormalizeTagName trims surrounding whitespace and lowercases a tag name,
// so "Flying " and "flying" resolve to the same tag.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
