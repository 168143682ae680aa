// Package survtest provides classical hypothesis tests for duration data
// (survival analysis): the log-rank test in two-sample, multivariate, and
// pairwise forms, sample size and power calculations for two-arm studies
// under a Cox proportional hazards design, and a test of the proportional
// hazards assumption based on scaled Schoenfeld residuals.
//
// The package does not fit survival models.  The log-rank tests consume raw
// durations, status indicators, and group labels; the proportional hazards
// test consumes quantities exposed by an already-fitted model.
package survtest
