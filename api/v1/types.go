// Package v1 defines the janitord local API payloads.
package v1

import "time"

// Status is the daemon status response.
type Status struct {
	State        string     `json:"state"`
	LastSweep    *time.Time `json:"last_sweep,omitempty"`
	LastError    *string    `json:"last_error,omitempty"`
	FilesChecked int64      `json:"files_checked"`
	Mismatches   int64      `json:"mismatches"`
	Pruned       int64      `json:"pruned"`
	FilesInCheck int64      `json:"files_in_check"`
}

// Counter is a single pool counter snapshot.
type Counter struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// FileRecord is one tracked ledger entry.
type FileRecord struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	SizeMB    int64     `json:"size_mb"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileListResponse pages through tracked files.
type FileListResponse struct {
	Page      int          `json:"page"`
	PageCount int          `json:"page_count"`
	Total     int          `json:"total"`
	Files     []FileRecord `json:"files"`
}

// FileCheck is the verification outcome for one file.
type FileCheck struct {
	Path     string `json:"path"`
	Expected int64  `json:"expected"`
	Actual   int64  `json:"actual"`
}

// CheckReport is the response of an on-demand ledger check.
type CheckReport struct {
	Checked    int         `json:"checked"`
	Ok         bool        `json:"ok"`
	Mismatches []FileCheck `json:"mismatches"`
}
