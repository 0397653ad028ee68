package parse

import (
	"encoding/json"
	"errors"

	"github.com/ersonp/histfacts/internal/domain/entities"
	"github.com/ersonp/histfacts/internal/domain/ports"
)

// envelope is the success body: {"result": {"data": [...]}}.
type envelope struct {
	Result *struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

// decodeRecords extracts the record list from a function response.
// Entries that are not JSON objects are skipped and counted; text fields
// that are missing or not strings become "".
func decodeRecords(body []byte) (entities.RecordCollection, int, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, &ports.FormatError{Reason: "decoding response body", Err: err}
	}
	if env.Result == nil {
		return nil, 0, &ports.FormatError{Reason: `response has no "result"`}
	}
	if len(env.Result.Data) == 0 || string(env.Result.Data) == "null" {
		return nil, 0, &ports.FormatError{Reason: `result has no "data" list`}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(env.Result.Data, &entries); err != nil {
		return nil, 0, &ports.FormatError{Reason: `"data" is not a list`, Err: err}
	}

	records := make(entities.RecordCollection, 0, len(entries))
	skipped := 0
	for _, raw := range entries {
		record, err := decodeRecord(raw)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}

	return records, skipped, nil
}

var errNotObject = errors.New("entry is not an object")

func decodeRecord(raw json.RawMessage) (entities.HistoricalRecord, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return entities.HistoricalRecord{}, errNotObject
	}

	return entities.HistoricalRecord{
		Date:        stringField(fields, "date"),
		Description: stringField(fields, "description"),
		Language:    stringField(fields, "lang"),
		Category1:   stringField(fields, "category1"),
		Category2:   stringField(fields, "category2"),
		Granularity: stringField(fields, "granularity"),
		CreatedAt:   stringField(fields, "createdAt"),
		UpdatedAt:   stringField(fields, "updatedAt"),
		ObjectID:    stringField(fields, "objectId"),
		Type:        stringField(fields, "__type"),
		ClassName:   stringField(fields, "className"),
	}, nil
}

// stringField returns fields[key] when it is a string, "" otherwise.
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
