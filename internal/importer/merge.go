package importer

// Keyed is a row identified by all of its fields.
type Keyed interface {
	Key() string
}

// Merge concatenates incoming ahead of existing and drops exact duplicates,
// keeping the first occurrence. added counts distinct incoming rows that were
// not already in existing.
func Merge[T Keyed](incoming, existing []T) (merged []T, added int) {
	before := make(map[string]bool, len(existing))
	for _, r := range existing {
		before[r.Key()] = true
	}

	seen := make(map[string]bool, len(incoming)+len(existing))
	merged = make([]T, 0, len(incoming)+len(existing))
	for _, batch := range [][]T{incoming, existing} {
		for _, r := range batch {
			k := r.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, r)
		}
	}

	for k := range seen {
		if !before[k] {
			added++
		}
	}
	return merged, added
}
