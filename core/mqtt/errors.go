package mqtt

import "errors"

// ErrPublishTimeout is returned when the broker does not confirm a publish in time.
var ErrPublishTimeout = errors.New("timeout waiting for publish")

// ErrNotConnected is returned when publishing on a closed client.
var ErrNotConnected = errors.New("mqtt client not connected")
