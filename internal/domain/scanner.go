package domain

import "time"

// ScanResult is the outcome of resolving a scanned code. Optional stages that
// have not happened yet are empty strings, never null.
type ScanResult struct {
	Exists              bool
	Description         string
	LocationCode        string
	LocationDescription string
}

// DetailRow is one append-only history entry recording a location assignment.
// DtlKey is the monotonically increasing sequence key, computed as current
// max + 1 at insert time.
type DetailRow struct {
	DtlKey   int64
	Code     string
	ItemCode string
	Location string
	Remark1  string
	Remark2  string
	Remark3  string
	TranDate time.Time
	TranUser string
}

// AssignLocationRequest is the input for recording a new location assignment.
type AssignLocationRequest struct {
	Code         string
	LocationDesc string
	Remark1      string
	Remark2      string
	Remark3      string
}
