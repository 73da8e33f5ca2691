package stagesync

import "stage-entry-api/internal/entry"

// SyncResult reports what one sync pass did. TargetExists false means the
// downstream stage was never started and nothing ran.
type SyncResult struct {
	TargetExists  bool     `json:"target_exists"`
	CopiedGroups  []string `json:"copied_groups,omitempty"`
	SkippedGroups []string `json:"skipped_groups,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// apply runs every group of a table against one source/target pair, mutating
// dst in place.
func apply[S, T any](src *S, dst *T, groups []fieldGroup[S, T]) SyncResult {
	res := SyncResult{TargetExists: true}
	for _, g := range groups {
		if g.Changed(dst) {
			res.SkippedGroups = append(res.SkippedGroups, g.Name)
			continue
		}
		res.Warnings = append(res.Warnings, g.Copy(src, dst)...)
		res.CopiedGroups = append(res.CopiedGroups, g.Name)
	}
	return res
}

// ApplyPreliminaryToSemifinals copies unchanged groups forward, mutating dst.
func ApplyPreliminaryToSemifinals(src *entry.PreliminaryInfo, dst *entry.SemifinalsInfo) SyncResult {
	return apply(src, dst, preliminaryToSemifinals)
}

// ApplySemifinalsToFinals copies unchanged groups forward, mutating dst.
func ApplySemifinalsToFinals(src *entry.SemifinalsInfo, dst *entry.FinalsInfo) SyncResult {
	return apply(src, dst, semifinalsToFinals)
}
