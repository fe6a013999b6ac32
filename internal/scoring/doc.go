// Package scoring provides the weighted site score computation with
// calibration support for placement decisions.
//
// The engine combines the General category's manual ratings, three
// fixed-default dimensions not yet backed by live ratings, and the
// module category average into a single normalized [0, 1] score, then
// maps that score onto the three-tier placement decision.
//
// Weights are asymmetric on purpose: foot traffic and the module score
// dominate because they drive transaction volume, while amenities and
// install complexity are minor signals. The weight table, placeholder
// defaults, and decision bands are a plain policy value constructed by
// the caller (optionally from a JSON calibration file) and threaded
// through the compute functions; there is no process-wide registry.
//
// Unrated dimensions contribute nothing to the weighted sum while their
// weight still counts in the denominator, so missing ratings depress
// the score rather than being excluded. Sparse input therefore reads as
// risk, not as neutral.
package scoring
