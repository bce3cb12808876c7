package models

type BulkUpdateRequest struct {
	Domains     []string `json:"domains"`
	Description string   `json:"description"`
}

type BulkUpdateHandle struct {
	BulkID    string `json:"bulkId"`
	UpdateURL string `json:"updateUrl"`
}

type Audit struct {
	Domains  DomainSet
	Outdated int
	Results  []RecordResult
}

type Verification struct {
	Matched    int
	Mismatched int
	Mismatches []RecordResult
}

// Result summarizes a single synchronization run.
type Result struct {
	IP           string
	Zones        []Zone
	Domains      []string
	Outdated     int
	Forced       bool
	Updated      bool
	Cancelled    bool
	BulkID       string
	Verification Verification
}
