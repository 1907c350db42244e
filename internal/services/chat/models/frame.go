package models

// FrameKind tags a decoded upstream streaming unit
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameContentDelta
	FrameStreamEnd
)

func (k FrameKind) String() string {
	switch k {
	case FrameContentDelta:
		return "content_delta"
	case FrameStreamEnd:
		return "stream_end"
	default:
		return "unknown"
	}
}

// Frame is a provider-neutral upstream event. Text is set only for content deltas.
type Frame struct {
	Kind FrameKind
	Text string
}

func ContentDelta(text string) Frame {
	return Frame{Kind: FrameContentDelta, Text: text}
}

func StreamEnd() Frame {
	return Frame{Kind: FrameStreamEnd}
}

func Unknown() Frame {
	return Frame{Kind: FrameUnknown}
}
