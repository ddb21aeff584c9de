// Package matching scores HTTP requests against stub mapping criteria.
//
// Every criterion that a matcher declares carries a weight (see scores.go).
// Evaluate adds the weight of each satisfied criterion to Result.Score and
// the weight of every declared criterion to Result.Max, so a request matches
// fully when Score equals Max and partially when only some criteria hold.
// More specific criteria weigh more: an exact path beats a glob, a body
// equality beats a substring.
package matching
