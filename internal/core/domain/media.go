package domain

// MediaKind identifies the media carried by a Producer or Consumer.
type MediaKind string

const (
	MediaKindAudio MediaKind = "audio"
	MediaKindVideo MediaKind = "video"
	MediaKindDepth MediaKind = "depth"
)

// ParseMediaKind validates a kind string taken from request data. The empty
// string and anything not in {audio,video,depth} is invalid.
func ParseMediaKind(s string) (MediaKind, bool) {
	switch MediaKind(s) {
	case MediaKindAudio, MediaKindVideo, MediaKindDepth:
		return MediaKind(s), true
	default:
		return "", false
	}
}

// RequiresFullFrame reports whether a Consumer/Producer of this kind needs
// keyframe-driven recovery (PLI/FIR/full-frame requests make sense for it).
func (k MediaKind) RequiresFullFrame() bool {
	return k == MediaKindVideo || k == MediaKindDepth
}
