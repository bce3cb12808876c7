package models

import (
	"maps"
	"slices"
)

const (
	RecordTypeA    = "A"
	RecordTypeAAAA = "AAAA"
)

type Record struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RootName   string `json:"rootName"`
	Type       string `json:"type"`
	Content    string `json:"content"`
	ChangeDate string `json:"changeDate"`
	TTL        int    `json:"ttl"`
	Disabled   bool   `json:"disabled"`
}

type RecordStatus string

const (
	StatusCurrent  RecordStatus = "current"
	StatusOutdated RecordStatus = "outdated"
)

// Status compares the record content against ip by exact string equality.
func (r Record) Status(ip string) RecordStatus {
	if r.Content == ip {
		return StatusCurrent
	}
	return StatusOutdated
}

type RecordResult struct {
	Zone    string
	Name    string
	Content string
	Status  RecordStatus
}

// DomainSet is an unordered set of fully qualified record names.
type DomainSet map[string]struct{}

func (s DomainSet) Add(name string) {
	s[name] = struct{}{}
}

func (s DomainSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

func (s DomainSet) Len() int {
	return len(s)
}

// Sorted returns the names in lexical order.
func (s DomainSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}
