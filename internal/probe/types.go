package probe

import "strconv"

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	PixFmt        string
	Width         int
	Height        int
	AvgFrameRate  string
	IsAttachedPic bool
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index         int
	Codec         string
	Channels      int
	ChannelLayout string
	SampleRate    int
}

// ProbeResult is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
type ProbeResult struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream
	AudioStreams []AudioStream
}

// HasAudio reports whether the file carries at least one audio stream.
func (p *ProbeResult) HasAudio() bool {
	return len(p.AudioStreams) > 0
}

// Duration returns the container duration in seconds (0 when unknown).
func (p *ProbeResult) Duration() float64 {
	return p.Format.Duration
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (p *ProbeResult) Resolution() string {
	if p.PrimaryVideo == nil || p.PrimaryVideo.Width <= 0 || p.PrimaryVideo.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(p.PrimaryVideo.Width) + "x" + strconv.Itoa(p.PrimaryVideo.Height)
}

// VideoCodec returns the primary video codec name, or "none".
func (p *ProbeResult) VideoCodec() string {
	if p.PrimaryVideo == nil || p.PrimaryVideo.Codec == "" {
		return "none"
	}
	return p.PrimaryVideo.Codec
}

// AudioCodec returns the first audio stream's codec name, or "none".
func (p *ProbeResult) AudioCodec() string {
	if len(p.AudioStreams) == 0 || p.AudioStreams[0].Codec == "" {
		return "none"
	}
	return p.AudioStreams[0].Codec
}
