package encounter

import (
	"fmt"

	"github.com/go-mixins/encounter/driver"
)

// Codec turns events into stored payloads and back.
type Codec struct {
	driver.Codec
}

func (c Codec) Marshal(evt Event) ([]byte, error) {
	return c.Codec.Marshal(evt)
}

func (c Codec) Unmarshal(eventType string, data []byte) (Event, error) {
	switch eventType {
	case PatientAdmitted{}.EventName():
		return decode[PatientAdmitted](c.Codec, data)
	case PatientDischarged{}.EventName():
		return decode[PatientDischarged](c.Codec, data)
	case PatientTransferred{}.EventName():
		return decode[PatientTransferred](c.Codec, data)
	}
	return nil, fmt.Errorf("unknown event type %q", eventType)
}

func decode[E Event](codec driver.Codec, data []byte) (Event, error) {
	var evt E
	if err := codec.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", evt.EventName(), err)
	}
	return evt, nil
}
