package entities

import "slices"

// FetchState is the observable state of a records view.
// A nil Records or FilteredRecords means absent; an empty ErrorMessage means
// no error. Category is the selected filter tag, empty when none is selected.
type FetchState struct {
	IsLoading       bool
	Records         RecordCollection
	FilteredRecords RecordCollection
	ErrorMessage    string
	Category        string
}

// HasRecords reports whether a fetch has ever stored records.
func (s FetchState) HasRecords() bool {
	return s.Records != nil
}

// Clone returns a copy that shares no slices with s.
func (s FetchState) Clone() FetchState {
	c := s
	if s.Records != nil {
		c.Records = slices.Clone(s.Records)
	}
	if s.FilteredRecords != nil {
		c.FilteredRecords = slices.Clone(s.FilteredRecords)
	}
	return c
}
