package model

import "time"

// ClientRow is one parsed row of the application dataset.
type ClientRow struct {
	ID int64
	// ApplicationDate is nil when the source value was blank or unparsable.
	ApplicationDate *time.Time
	Contracts       History
	// RawContracts is the untouched source text, carried through to the output.
	RawContracts string
}
