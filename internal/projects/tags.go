package projects

import "strings"

// TagSet is an ordered set of lower-cased tags. Equal tags are stored once.
type TagSet struct {
	tags []string
}

// Add normalises raw and appends it. It reports false for empty input or a
// tag that is already present.
func (s *TagSet) Add(raw string) bool {
	tag := normalizeTag(raw)
	if tag == "" || s.Has(tag) {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Has reports whether tag (in any case) is in the set.
func (s *TagSet) Has(tag string) bool {
	tag = normalizeTag(tag)
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Remove deletes tag if present.
func (s *TagSet) Remove(tag string) {
	tag = normalizeTag(tag)
	for i, t := range s.tags {
		if t == tag {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return
		}
	}
}

// Tags returns a copy of the tags in insertion order.
func (s *TagSet) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

func (s *TagSet) Len() int { return len(s.tags) }

func (s *TagSet) Clear() { s.tags = nil }

// NormalizeTags lower-cases, trims and de-duplicates tags, keeping first
// occurrence order.
func NormalizeTags(in []string) []string {
	var s TagSet
	for _, t := range in {
		s.Add(t)
	}
	return s.Tags()
}

func normalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
