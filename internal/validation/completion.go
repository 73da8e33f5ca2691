package validation

import "stage-entry-api/internal/entry"

// StageCompletion is one stage's snapshot: a stage that was never started
// exists=false and is never complete.
type StageCompletion struct {
	Exists   bool `json:"exists"`
	Complete bool `json:"complete"`
}

// Evaluate computes the completion snapshot across every stage. Absent stage
// records are the normal case and yield {false, false}.
func Evaluate(rs entry.StageRecords, aux AuxFacts) map[entry.Stage]StageCompletion {
	out := make(map[entry.Stage]StageCompletion, len(entry.AllStages))
	for _, stage := range entry.AllStages {
		exists := stageExists(stage, rs)
		c := StageCompletion{Exists: exists}
		if exists {
			c.Complete = len(ValidateStage(stage, rs, aux)) == 0
		}
		out[stage] = c
	}
	return out
}

// StageStatuses maps a completion snapshot onto the cached status strings
// stored on the entry row.
func StageStatuses(rs entry.StageRecords, aux AuxFacts) map[entry.Stage]string {
	snapshot := Evaluate(rs, aux)
	out := make(map[entry.Stage]string, len(snapshot))
	for stage, c := range snapshot {
		switch {
		case !c.Exists:
			out[stage] = entry.StageStatusNone
		case c.Complete:
			out[stage] = entry.StageStatusComplete
		default:
			out[stage] = entry.StageStatusIncomplete
		}
	}
	return out
}
