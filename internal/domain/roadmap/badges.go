package roadmap

// Tier is a named badge level.
type Tier struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

var (
	tierTable = map[int]Tier{
		1: {Name: "Phase 1 Finisher", Color: "gold"},
		2: {Name: "Phase 2 Conqueror", Color: "silver"},
		3: {Name: "Phase 3 Master", Color: "bronze"},
	}
	defaultTier = Tier{Name: "Roadmap Rockstar", Color: "primary"}
)

// TierForRank maps a 1-based rank among completed phases to its tier.
func TierForRank(rank int) Tier {
	if t, ok := tierTable[rank]; ok {
		return t
	}
	return defaultTier
}

// Badge is awarded for a completed phase.
type Badge struct {
	Rank       int    `json:"rank"`
	PhaseIndex int    `json:"phaseIndex"`
	PhaseTitle string `json:"phaseTitle"`
	Tier       Tier   `json:"tier"`
}

// Badges derives one badge per completed phase, in roadmap order. The rank
// is the position among completed phases, not the phase index.
func Badges(r Roadmap) []Badge {
	completed := CompletedPhases(r)
	out := make([]Badge, 0, len(completed))
	for i, idx := range completed {
		rank := i + 1
		out = append(out, Badge{
			Rank:       rank,
			PhaseIndex: idx,
			PhaseTitle: r.Phases[idx].Title,
			Tier:       TierForRank(rank),
		})
	}
	return out
}
