package domain

import "time"

// Record fields every table carries.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Base gives generic code access to the embedded record.
func (r *Record) Base() *Record { return r }

// Stamp sets both timestamps to now (creation).
func (r *Record) Stamp(now time.Time) {
	r.CreatedAt = now
	r.UpdatedAt = now
}

// Touch refreshes updated_at (mutation).
func (r *Record) Touch(now time.Time) {
	r.UpdatedAt = now
}
