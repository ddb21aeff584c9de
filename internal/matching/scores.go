package matching

// Per-criterion weights. A criterion contributes its weight to Result.Max
// when configured and to Result.Score when it matches, so more specific
// criteria dominate the ranking of full matches and the ratio of partial ones.
const (
	ScoreBodyEquals        = 25
	ScoreBodyContains      = 20
	ScoreJSONPathCondition = 15 // per condition

	ScorePathExact   = 15
	ScorePathPattern = 14 // regex ranks between exact and glob
	ScorePathGlob    = 10

	ScoreMethod     = 10
	ScoreHeader     = 10 // per header
	ScoreQueryParam = 5  // per parameter
)
