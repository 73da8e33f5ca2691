package validation

import (
	"time"

	"stage-entry-api/internal/entry"
)

// AuxFacts carries the facts a validator cannot read off the stage record
// itself: the evaluation instant for age rules and which upload slots are
// filled.
type AuxFacts struct {
	Now                 time.Time
	HasPreliminaryVideo bool
	HasPracticeVideo    bool
	HasPaymentSlip      bool
}

// BuildAuxFacts derives upload facts from an entry's file rows.
func BuildAuxFacts(now time.Time, files []entry.EntryFile) AuxFacts {
	aux := AuxFacts{Now: now}
	for _, f := range files {
		switch f.Purpose {
		case entry.PurposePreliminaryVideo:
			aux.HasPreliminaryVideo = true
		case entry.PurposeSnsPracticeVideo:
			aux.HasPracticeVideo = true
		case entry.PurposePaymentSlip:
			aux.HasPaymentSlip = true
		}
	}
	return aux
}
