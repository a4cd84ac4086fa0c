// Package view models the search page as an explicit, serializable state
// updated only through pure transition functions.
package view

import (
	"errors"
	"strconv"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
)

// User-facing messages.
const (
	MsgSearchFailed   = "An error occurred while searching. Please try again."
	MsgTimeout        = "Search request timed out. Please try again."
	MsgNoFilters      = "Lūdzu ievadiet vismaz vienu meklēšanas kritēriju"
	MsgInvalidFilters = "Pārbaudiet ievadītos meklēšanas kritērijus"
)

// Phase is the rendering branch derived from a State.
type Phase string

// Rendering phases.
const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseFailed  Phase = "failed"
	PhaseResults Phase = "results"
	PhaseEmpty   Phase = "empty"
)

// State is everything the search page renders from.
type State struct {
	Filters     filter.Filters       `json:"filters"`
	Results     []rec.Recommendation `json:"results"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
	HasSearched bool                 `json:"hasSearched"`
	Expanded    map[string]bool      `json:"expanded,omitempty"`
}

// Initial returns the state of a freshly opened page.
func Initial() State {
	return State{}
}

// Submit starts a search: loading on, previous results and error cleared.
func Submit(s State, f filter.Filters) State {
	s.Filters = f
	s.Results = nil
	s.Loading = true
	s.Error = ""
	s.Expanded = nil
	return s
}

// Succeed stores the results of a finished search.
func Succeed(s State, results []rec.Recommendation) State {
	s.Results = results
	s.Loading = false
	s.Error = ""
	s.HasSearched = true
	return s
}

// Fail records a failed search with a generic user-facing message.
func Fail(s State, err error) State {
	s.Results = nil
	s.Loading = false
	s.Error = Message(err)
	return s
}

// Toggle flips the expanded flag of one card. The input state is not modified.
func Toggle(s State, key string) State {
	expanded := make(map[string]bool, len(s.Expanded)+1)
	for k, v := range s.Expanded {
		if v {
			expanded[k] = true
		}
	}
	if expanded[key] {
		delete(expanded, key)
	} else {
		expanded[key] = true
	}
	s.Expanded = expanded
	return s
}

// IsExpanded reports whether the card with the given key is expanded.
func (s State) IsExpanded(key string) bool { return s.Expanded[key] }

// Phase derives the rendering branch: loading, then error, then results, then empty.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseFailed
	case len(s.Results) > 0:
		return PhaseResults
	case s.HasSearched:
		return PhaseEmpty
	default:
		return PhaseIdle
	}
}

// Message maps an error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNoFilters):
		return MsgNoFilters
	case errors.Is(err, domain.ErrInvalidFilters):
		return MsgInvalidFilters
	case errors.Is(err, domain.ErrTimeout):
		return MsgTimeout
	default:
		return MsgSearchFailed
	}
}

// CardKey identifies a card: the listing id, or its position when the backend sent none.
func CardKey(index int, r rec.Recommendation) string {
	if r.Listing.ID != "" {
		return r.Listing.ID
	}
	return "card-" + strconv.Itoa(index)
}
