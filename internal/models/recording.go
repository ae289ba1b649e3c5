package models

import "time"

// Recording is a journal entry for a subscription that was successfully
// created. It is an audit trail only: scheduling decisions are re-derived
// from the guide every cycle, never from these entries.
type Recording struct {
	ID   uint64 `boltholdKey:"ID"`
	GUID string `boltholdIndex:"GUID"` // stable content identifier from the grid

	Title     string // grandparent title for episodes, own title otherwise
	Kind      MediaKind
	Library   TargetLibrary
	LibraryID string

	// Airing details
	LineupChannel string
	AiringStart   time.Time

	CreatedAt time.Time
}
