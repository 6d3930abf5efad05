// Package probe provides ffprobe-based media inspection and typed result
// structures. One JSON call per file answers every question the pipeline
// asks: does the file carry audio, what is its resolution, how long is it.
package probe
