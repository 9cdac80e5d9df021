package team

// Stage is a tournament round a team can currently sit in.
type Stage string

const (
	StageEliminated    Stage = "Eliminated"
	StageGroup         Stage = "Group Stage"
	StageRoundOf32     Stage = "Round of 32"
	StageRoundOf16     Stage = "Round of 16"
	StageQuarterFinals Stage = "Quarter-finals"
	StageSemiFinals    Stage = "Semi-finals"
	StageThirdPlace    Stage = "Third Place Play-off"
	StageFinal         Stage = "Final"
	StageWinner        Stage = "Winner"
)

// StageOrder is the fixed progression order. Rank is the index into this
// list; elimination sits at rank zero so any named round outranks it.
var StageOrder = []Stage{
	StageEliminated,
	StageGroup,
	StageRoundOf32,
	StageRoundOf16,
	StageQuarterFinals,
	StageSemiFinals,
	StageThirdPlace,
	StageFinal,
	StageWinner,
}

// Rank returns the position of a stage in the progression order, or -1 for
// an unknown stage name.
func Rank(stage Stage) int {
	for i, s := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// Known reports whether the stage name is one of the fixed set.
func Known(stage Stage) bool {
	return Rank(stage) >= 0
}

// Progressed reports whether moving previous -> next counts as a forward
// stage change. A team with no recorded previous stage never "progresses";
// the first write just establishes its position.
func Progressed(previous, next Stage) bool {
	prevRank := Rank(previous)
	nextRank := Rank(next)
	return prevRank >= 0 && nextRank > prevRank
}

// Eliminated reports whether moving previous -> next knocked the team out.
func Eliminated(previous, next Stage) bool {
	return next == StageEliminated && previous != StageEliminated
}
