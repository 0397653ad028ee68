package entities

// FilterByCategory returns the records whose Category1 equals tag, in input
// order. The input is never modified. An unknown tag yields an empty,
// non-nil collection.
func FilterByCategory(records RecordCollection, tag string) RecordCollection {
	filtered := make(RecordCollection, 0, len(records))
	for i := range records {
		if records[i].Category1 == tag {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}

// CategoryCount is a category tag with the number of records carrying it.
type CategoryCount struct {
	Tag   string
	Count int
}

// Categories lists the distinct Category1 values in first-seen order.
func Categories(records RecordCollection) []CategoryCount {
	index := make(map[string]int)
	var result []CategoryCount
	for i := range records {
		tag := records[i].Category1
		if pos, ok := index[tag]; ok {
			result[pos].Count++
			continue
		}
		index[tag] = len(result)
		result = append(result, CategoryCount{Tag: tag, Count: 1})
	}
	return result
}
