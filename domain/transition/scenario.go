package transition

import "github.com/felixgeelhaar/belief-eval/domain/fluent"

// GrapeInspectionState returns the initial world state of the grape
// inspection scenario: a logistic robot carrying a full basket and a
// support agent at l0, four linearly adjacent locations l0..l3 each holding
// one unchecked grape g0..g3.
func GrapeInspectionState() fluent.State {
	return fluent.ParseState(
		"(robot-at rob l0)",
		"(robot-at support0 l0)",
		"(support support0)",
		"(logistic rob)",
		"(grape-at g0 l0)",
		"(grape-at g1 l1)",
		"(grape-at g2 l2)",
		"(grape-at g3 l3)",
		"(unchecked l0)",
		"(unchecked l1)",
		"(unchecked l2)",
		"(unchecked l3)",
		"(free rob)",
		"(in b rob)",
		"(adj l0 l1)",
		"(adj l1 l2)",
		"(adj l2 l3)",
		"(full b)",
	)
}

// Grape inspection action names.
const (
	CheckGrape        = "check_grape"
	CheckGrapeUnknown = "check_grape_uk"
	CheckGrapeUnripe  = "check_grape_ur"
	CheckGrapeRipe    = "check_grape_rp"
)

// GrapeInspectionResolver rewrites check_grape by peeking at the next
// ground-truth action: an exception handler means the grape state was
// unknown, a vine assessment means it was unripe, anything else ripe.
func GrapeInspectionResolver() Resolver {
	return Lookahead(LookaheadRule{
		Generic: CheckGrape,
		Cases: []LookaheadCase{
			{Marker: "handle_exception", Concrete: CheckGrapeUnknown},
			{Marker: "assest_vine", Concrete: CheckGrapeUnripe},
		},
		Default: CheckGrapeRipe,
	})
}
