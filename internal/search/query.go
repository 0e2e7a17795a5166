package search

import (
	"encoding/json"
	"strings"
)

// Validate checks that the query can be run
func (q Query) Validate() error {
	if strings.TrimSpace(q.SearchTerm) == "" {
		return &ValidationError{Reason: "search_term is required"}
	}
	return nil
}

// ParseQuery decodes a JSON-encoded query and validates it
func ParseQuery(data []byte) (Query, error) {
	var q Query
	if err := json.Unmarshal(data, &q); err != nil {
		return Query{}, &ValidationError{Reason: "malformed query: " + err.Error()}
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}
