// Package validation checks fields of decoded control-plane payloads and
// configuration values, so malformed input fails with a clear message
// instead of a cryptic decode error three layers down.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var mimeTypeRegex = regexp.MustCompile(`^(audio|video)/[a-zA-Z0-9.\-]+$`)

// ValidateMimeType checks an RTP codec MIME type ("audio/opus", "video/VP8").
func ValidateMimeType(mimeType string) error {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return fmt.Errorf("mimeType is required")
	}
	if !mimeTypeRegex.MatchString(mimeType) {
		return fmt.Errorf("invalid mimeType format: %q", mimeType)
	}
	return nil
}

// ValidateClockRate checks an RTP codec clock rate lies in [8000, 192000]:
// from 8000 for narrowband audio, past 90000 for video, up to high-rate audio.
func ValidateClockRate(clockRate int) error {
	if clockRate < 8000 || clockRate > 192000 {
		return fmt.Errorf("clockRate %d out of range [8000, 192000]", clockRate)
	}
	return nil
}

// ValidatePayloadType checks an RTP payload type fits the 7-bit field,
// [0, 127]; static and dynamic types are both accepted.
func ValidatePayloadType(payloadType int) error {
	if payloadType < 0 || payloadType > 127 {
		return fmt.Errorf("payloadType %d out of range [0, 127]", payloadType)
	}
	return nil
}

// ValidateKind checks a media kind string is one this system understands.
func ValidateKind(kind string) error {
	switch kind {
	case "audio", "video", "depth":
		return nil
	default:
		return fmt.Errorf("invalid kind %q (must be audio, video, or depth)", kind)
	}
}

// ValidateSSRC checks an RTP synchronization source identifier is non-zero;
// SSRC 0 is reserved and never assigned to a real encoding.
func ValidateSSRC(ssrc uint32) error {
	if ssrc == 0 {
		return fmt.Errorf("ssrc must not be zero")
	}
	return nil
}

// ValidateNonEmptyString validates that string is not empty after trimming.
func ValidateNonEmptyString(s, fieldName string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}
