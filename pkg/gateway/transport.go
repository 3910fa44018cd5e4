package gateway

import "github.com/quickfixgo/quickfix"

// SendResult is the outcome of one outbound delivery attempt. Backpressure
// is an ordinary value so callers are forced to pick a retry path; it is
// never surfaced as an error.
type SendResult int

const (
	SendAccepted SendResult = iota
	SendBackpressured
	SendFatal
)

func (r SendResult) String() string {
	switch r {
	case SendAccepted:
		return "accepted"
	case SendBackpressured:
		return "backpressured"
	case SendFatal:
		return "fatal"
	}
	return "unknown"
}

// Transport is the outbound side of the session. TrySend must not block:
// it either takes ownership of the message (SendAccepted, recycling it via
// Recycle once written), declines because capacity is exhausted
// (SendBackpressured), or reports a dead session (SendFatal, with the
// cause in err). No retrying happens below this interface.
type Transport interface {
	TrySend(msg *quickfix.Message) (SendResult, error)
}
