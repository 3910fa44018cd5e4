package fixgateway

import (
	"testing"

	"github.com/quickfixgo/quickfix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
)

func testSessionID() quickfix.SessionID {
	return quickfix.SessionID{
		BeginString:  "FIX.4.4",
		SenderCompID: "GATEWAY",
		TargetCompID: "CLIENT",
	}
}

func TestTrySendAcceptsUntilQueueFull(t *testing.T) {
	transport := newSessionTransport(testSessionID(), 2, zap.NewNop())

	result, err := transport.TrySend(quickfix.NewMessage())
	require.NoError(t, err)
	assert.Equal(t, gateway.SendAccepted, result)

	result, err = transport.TrySend(quickfix.NewMessage())
	require.NoError(t, err)
	assert.Equal(t, gateway.SendAccepted, result)

	// queue full: backpressure, not an error
	result, err = transport.TrySend(quickfix.NewMessage())
	require.NoError(t, err)
	assert.Equal(t, gateway.SendBackpressured, result)
}

func TestTrySendAfterCloseIsFatal(t *testing.T) {
	transport := newSessionTransport(testSessionID(), 2, zap.NewNop())
	transport.close()

	result, err := transport.TrySend(quickfix.NewMessage())
	assert.Equal(t, gateway.SendFatal, result)
	require.Error(t, err)
}
