package scheduler

import (
	"slices"

	"github.com/jzsun22/orvia-scheduler/pkg/core/model"
)

// rankCandidates returns a copy of the pool ordered by job level
// descending, then current assigned hours ascending. The stable sort keeps
// ties in input order, which does not matter for outcomes since true ties
// are always left unassigned.
func rankCandidates(state *State, pool []model.Worker) []model.Worker {
	ranked := slices.Clone(pool)
	slices.SortStableFunc(ranked, func(a, b model.Worker) int {
		if a.Level != b.Level {
			return int(b.Level - a.Level)
		}
		ah, bh := state.HoursOf(a.ID), state.HoursOf(b.ID)
		switch {
		case ah < bh:
			return -1
		case ah > bh:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// topLevelGroup returns every candidate sharing the top job level.
// More than one entry means an unresolved tie for lead assignment.
func topLevelGroup(ranked []model.Worker) []model.Worker {
	if len(ranked) == 0 {
		return nil
	}
	top := ranked[0].Level
	var group []model.Worker
	for _, w := range ranked {
		if w.Level != top {
			break
		}
		group = append(group, w)
	}
	return group
}

// hasExactTie reports whether the top two ranked candidates share both job
// level and current hours, the unresolvable tie for dynamic and paired
// assignment
func hasExactTie(state *State, ranked []model.Worker) bool {
	if len(ranked) < 2 {
		return false
	}
	a, b := ranked[0], ranked[1]
	return a.Level == b.Level && state.HoursOf(a.ID) == state.HoursOf(b.ID)
}

// exactTieGroup returns the ranked candidates sharing both the top job
// level and the top candidate's current hours
func exactTieGroup(state *State, ranked []model.Worker) []model.Worker {
	if len(ranked) == 0 {
		return nil
	}
	top := ranked[0]
	topHours := state.HoursOf(top.ID)
	var group []model.Worker
	for _, w := range ranked {
		if w.Level != top.Level || state.HoursOf(w.ID) != topHours {
			break
		}
		group = append(group, w)
	}
	return group
}

// workerIDs extracts ids for warning messages
func workerIDs(workers []model.Worker) []string {
	ids := make([]string, len(workers))
	for i, w := range workers {
		ids[i] = w.ID
	}
	return ids
}
