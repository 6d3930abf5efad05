// Package ffmpeg builds the argument lists for every pipeline stage, writes
// the concat demuxer manifest, and runs ffmpeg through an Executor.
//
// Every builder starts from the same preamble (binary, -hide_banner,
// -nostdin, -y, -loglevel) and ends with the output path, so the last
// element of any argument slice is always the file the stage produces.
package ffmpeg
