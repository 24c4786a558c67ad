// Package orderdraft holds the client-side order-entry logic: picking the
// counterparty, editing line items with free-form numeric input, and driving
// the draft through review and submission.
package orderdraft

import "strings"

// Named is anything with a display name a user can search by.
type Named interface {
	DisplayName() string
}

// Entity is a selectable counterparty (a farmer or an industrial customer).
type Entity struct {
	ID   string
	Name string
	Tel  string
}

// DisplayName implements Named.
func (e Entity) DisplayName() string { return e.Name }

// Filter returns the entities whose name contains the query,
// case-insensitively. An empty or whitespace query matches nothing: the
// selector starts blank until the user types.
func Filter(entities []Entity, query string) []Entity {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matched []Entity
	for _, e := range entities {
		if strings.Contains(strings.ToLower(e.Name), query) {
			matched = append(matched, e)
		}
	}
	return matched
}
