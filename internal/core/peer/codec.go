package peer

import (
	"encoding/json"
	"errors"
	"fmt"

	"peercore/internal/core/domain"
	"peercore/pkg/validation"
)

var errMissingKind = errors.New(domain.ReasonMissingKind)

func jsonUnmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return errors.New("empty request data")
	}
	return json.Unmarshal(data, v)
}

// decodeCapabilities parses PEER_SET_CAPABILITIES's request data. A
// malformed payload is a construction error the dispatcher turns into a
// Reject, the Go analogue of the original's RtpCapabilities(request->data)
// constructor throwing.
func decodeCapabilities(data []byte) (domain.RTPCapabilities, error) {
	var caps domain.RTPCapabilities
	if err := jsonUnmarshal(data, &caps); err != nil {
		return domain.RTPCapabilities{}, domain.ErrInvalidCapabilities
	}
	for _, codec := range caps.Codecs {
		if err := validation.ValidateMimeType(codec.MimeType); err != nil {
			return domain.RTPCapabilities{}, fmt.Errorf("%w: %v", domain.ErrInvalidCapabilities, err)
		}
		if err := validation.ValidateClockRate(int(codec.ClockRate)); err != nil {
			return domain.RTPCapabilities{}, fmt.Errorf("%w: %v", domain.ErrInvalidCapabilities, err)
		}
		if err := validation.ValidatePayloadType(int(codec.PayloadType)); err != nil {
			return domain.RTPCapabilities{}, fmt.Errorf("%w: %v", domain.ErrInvalidCapabilities, err)
		}
	}
	return caps, nil
}
