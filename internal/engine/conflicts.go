package engine

import (
	"advisim/internal/types"
)

// DetectConflicts scans every pair of analyses for contradictions and
// returns zero or more resolutions.
//
// The timeline comparison below is a deliberate stub: differing timeline
// text never raises a conflict, so the detector currently reports none.
// This mirrors the advisory pipeline's documented incompleteness; do not
// replace the stub with a real overlap heuristic without revisiting every
// consumer of the zero-conflict default.
func DetectConflicts(analyses []types.AgentAnalysis) []types.ConflictResolution {
	var conflicts []types.ConflictResolution
	for i := 0; i < len(analyses); i++ {
		for j := i + 1; j < len(analyses); j++ {
			a, b := analyses[i], analyses[j]
			if a.Timeline == b.Timeline {
				continue
			}
			if !timelinesConflict(a, b) {
				continue
			}
			conflicts = append(conflicts, types.ConflictResolution{
				Agents:     [2]string{a.Agent, b.Agent},
				Issue:      "conflicting timelines",
				Resolution: "sequence the longer track first",
				RiskLevel:  "medium",
			})
		}
	}
	return conflicts
}

// timelinesConflict is the comparison hook. Known incomplete: always
// reports no conflict.
func timelinesConflict(_, _ types.AgentAnalysis) bool {
	return false
}
