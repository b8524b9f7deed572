package model

import "time"

// ImportLogEntry is the audit row written once per upload.
type ImportLogEntry struct {
	ID              int64     `json:"id" db:"id"`
	BatchID         string    `json:"batchId" db:"batch_id"`
	Filenames       string    `json:"filenames" db:"filenames"`
	RecordsImported int       `json:"recordsImported" db:"records_imported"`
	Periods         string    `json:"periods" db:"periods"`
	Panel           string    `json:"panel" db:"panel"`
	Summary         string    `json:"summary" db:"summary"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
