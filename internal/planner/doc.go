// Package planner lays out a run before anything executes: which
// intermediate file each source goes through, where the manifest lives and
// which file every post-processing stage writes.
package planner
