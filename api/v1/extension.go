package v1

import (
	"github.com/quarrydb/janitor/internal/models"
	"github.com/quarrydb/janitor/internal/util"
)

// FromModel fills the API status from the service snapshot.
func (s *Status) FromModel(m models.SweepStatus) {
	s.State = string(m.State)
	s.FilesChecked = m.FilesChecked
	s.Mismatches = m.Mismatches
	s.Pruned = m.Pruned
	if !m.LastSweep.IsZero() {
		t := m.LastSweep
		s.LastSweep = &t
	}
	if m.LastError != "" {
		e := m.LastError
		s.LastError = &e
	}
}

// NewFileRecordFromModel converts a models.FileRecord to an API record.
func NewFileRecordFromModel(rec models.FileRecord) FileRecord {
	return FileRecord{
		Path:      rec.Path,
		Size:      rec.Size,
		SizeMB:    util.ConvertBytesToMB(rec.Size),
		UpdatedAt: rec.UpdatedAt,
	}
}

// NewCheckReportFromModel converts a models.CheckReport to an API report.
func NewCheckReportFromModel(report models.CheckReport) CheckReport {
	out := CheckReport{
		Checked:    report.Checked,
		Ok:         report.OK(),
		Mismatches: make([]FileCheck, 0, len(report.Mismatches)),
	}
	for _, m := range report.Mismatches {
		out.Mismatches = append(out.Mismatches, FileCheck{
			Path:     m.Path,
			Expected: m.Expected,
			Actual:   m.Actual,
		})
	}
	return out
}
