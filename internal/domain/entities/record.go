// Package entities contains core domain data structures.
package entities

// Known category tags offered to users. The set is open: the backend may
// return any other value in Category1 or Category2.
const (
	CategoryByPlace = "By place"
	CategoryByTopic = "By topic"
)

// HistoricalRecord is a single historical fact returned by the backend.
// Timestamps are passed through as the backend formats them.
type HistoricalRecord struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Language    string `json:"lang"`
	Category1   string `json:"category1"`
	Category2   string `json:"category2"`
	Granularity string `json:"granularity"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	ObjectID    string `json:"objectId"`
	Type        string `json:"__type"`
	ClassName   string `json:"className"`
}

// RecordCollection is an ordered list of records in backend response order.
type RecordCollection []HistoricalRecord

// FindByObjectID returns the record with the given object ID.
func (c RecordCollection) FindByObjectID(objectID string) (HistoricalRecord, bool) {
	for i := range c {
		if c[i].ObjectID == objectID {
			return c[i], true
		}
	}
	return HistoricalRecord{}, false
}
