package model

// Tag is a named label shared across dream logs.
type Tag struct {
	ID   int64
	Name string
}

// DreamTag links one dream log to one tag.
type DreamTag struct {
	ID         int64
	DreamLogID int64
	TagID      int64
}

// UniqueTagNames returns names with duplicates removed, keeping first-seen order.
func UniqueTagNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}
