package models

// UnitRecord is one row of the multi-unit building table: a parcel address
// plus the dong (building/wing) and ho (unit number) designators that locate
// a single unit inside the building. Records are re-read from the datastore
// view on every job run; only retry metadata survives between runs.
type UnitRecord struct {
	ID      string // opaque datastore record id
	Address string // 지번 주소, free text
	Dong    string // 동, may be empty for single-building parcels
	Ho      string // 호수
}

// JobSummary aggregates the outcome of one job run.
type JobSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}
