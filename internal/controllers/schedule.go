package controllers

import (
	"sort"
	"time"

	"github.com/recordarr/recordarr/internal/services/plex"
)

// PreScheduleWindow is how close to air time a broadcast must be before a
// subscription is created for it. The DVR endpoint wants to be called near
// air time, so anything further out waits for a later cycle.
const PreScheduleWindow = 30 * time.Second

// emptyGuideWait bounds the scan interval when no channel has any eligible
// upcoming broadcast
const emptyGuideWait = time.Hour

// Decision is the outcome of folding one scan's candidates: the broadcasts
// that must be scheduled right now, and when to scan again. Next is the
// earliest future candidate, nil when the guide held none.
type Decision struct {
	Due      []*plex.Broadcast
	Next     *plex.Broadcast
	NextWake time.Time
}

// Decide classifies each channel's candidate as due (starting inside the
// pre-schedule window) or future. NextWake is the earliest future start, or
// now plus one hour when there is no future candidate. Candidates with
// equal start times tie-break arbitrarily, first seen wins.
func Decide(candidates map[string]*plex.Broadcast, now time.Time) Decision {
	decision := Decision{NextWake: now.Add(emptyGuideWait)}

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}

		start := time.Unix(candidate.BeginsAt(), 0)
		if start.Sub(now) < PreScheduleWindow {
			decision.Due = append(decision.Due, candidate)
			continue
		}

		if decision.Next == nil || start.Before(decision.NextWake) {
			decision.Next = candidate
			decision.NextWake = start
		}
	}

	sort.Slice(decision.Due, func(i, j int) bool {
		return decision.Due[i].BeginsAt() < decision.Due[j].BeginsAt()
	})

	return decision
}
