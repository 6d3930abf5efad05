// Package pipeline runs one concatenation: discover the source videos,
// prepare each one (resize, overlay), append the trailer, concat, then
// apply the audio, loudness and fade stages before copying the result to
// its destination.
//
// Every ffmpeg invocation goes through an ffmpeg.Executor and every probe
// through a probe.Prober, so the whole run can be driven by fakes in tests.
package pipeline
