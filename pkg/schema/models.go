// Package schema provides models of the reporting database. Merged
// sample records are exported into these tables for SQL reports.
package schema

import (
	"time"
)

// Sample keeps scalar fields of one Merged sample record.
type Sample struct {
	// ID is the text form of the document identity.
	ID string `db:"id" gorm:"primaryKey;type:varchar(64)"`

	// SampleDate is the day of the trap check.
	SampleDate *time.Time `db:"sample_date" gorm:"type:date;index"`

	// SampleTime is the time of the check as entered by the crew.
	SampleTime string `db:"sample_time" gorm:"type:varchar(20)"`

	// TrapOperating is "Y" or "N".
	TrapOperating string `db:"trap_operating" gorm:"type:varchar(10)"`

	RPM        *float64 `db:"rpm"`
	Debris     string   `db:"debris" gorm:"type:varchar(100)"`
	WaterTemp  *float64 `db:"water_temp"`
	HoboTemp   *float64 `db:"hobo_temp"`
	Visibility string   `db:"visibility" gorm:"type:varchar(100)"`
	Flow       string   `db:"flow" gorm:"type:varchar(100)"`
	Comments   string   `db:"comments" gorm:"type:text"`

	// ChumDNAIDs lists vial labels of chum DNA samples.
	ChumDNAIDs string `db:"chum_dna_ids" gorm:"type:text"`

	UserID      string `db:"user_id" gorm:"type:varchar(100)"`
	SubmittedBy string `db:"submitted_by" gorm:"type:varchar(255)"`

	// CreatedAt is the creation time of the record in the field
	// application, not the time of the export.
	CreatedAt *time.Time `db:"created_at" gorm:"autoCreateTime:false"`

	// ExportRunID links the row to the export that wrote it.
	ExportRunID string `db:"export_run_id" gorm:"type:uuid;index"`
}

func (Sample) TableName() string {
	return "samples"
}

// SampleCount keeps one numeric field of a sample: a catch, a mark, a
// recapture or a mortality count.
type SampleCount struct {
	SampleID string  `db:"sample_id" gorm:"primaryKey;type:varchar(64)"`
	Field    string  `db:"field" gorm:"primaryKey;type:varchar(100);index"`
	Count    float64 `db:"count"`
}

func (SampleCount) TableName() string {
	return "sample_counts"
}

// ExportRun describes one export.
type ExportRun struct {
	ID         string    `db:"id" gorm:"primaryKey;type:uuid"`
	Collection string    `db:"collection" gorm:"type:varchar(255)"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`

	// Forced is true when export tables were truncated first.
	Forced bool `db:"forced"`

	Samples int `db:"samples"`
	Counts  int `db:"counts"`

	// Skipped counts records that were already exported.
	Skipped int `db:"skipped"`

	// Historical counts Legacy records converted for the export.
	Historical int `db:"historical"`

	// Pending counts Intermediate and Unknown records.
	Pending int `db:"pending"`
}

func (ExportRun) TableName() string {
	return "export_runs"
}

// SampleColumns are columns of the samples table in COPY order.
var SampleColumns = []string{
	"id", "sample_date", "sample_time", "trap_operating", "rpm", "debris",
	"water_temp", "hobo_temp", "visibility", "flow", "comments",
	"chum_dna_ids", "user_id", "submitted_by", "created_at", "export_run_id",
}

// Row returns values of the sample in SampleColumns order.
func (s Sample) Row() []any {
	return []any{
		s.ID, s.SampleDate, s.SampleTime, s.TrapOperating, s.RPM, s.Debris,
		s.WaterTemp, s.HoboTemp, s.Visibility, s.Flow, s.Comments,
		s.ChumDNAIDs, s.UserID, s.SubmittedBy, s.CreatedAt, s.ExportRunID,
	}
}

// CountColumns are columns of the sample_counts table in COPY order.
var CountColumns = []string{"sample_id", "field", "count"}

// Row returns values of the count in CountColumns order.
func (c SampleCount) Row() []any {
	return []any{c.SampleID, c.Field, c.Count}
}
