package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sejin/dispatch-platform/internal/domain"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventAccountLoggedIn, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), AccountLoggedIn(7, domain.RoleDriver)))
	require.NoError(t, dispatcher.Publish(context.Background(), TokenRejected("/api/orders", nil)))

	require.Len(t, received, 1)
	assert.Equal(t, EventAccountLoggedIn, received[0].Type)
	payload, ok := received[0].Payload.(LoginPayload)
	require.True(t, ok)
	assert.Equal(t, int64(7), payload.AccountID)
	assert.Equal(t, domain.RoleDriver, payload.Role)
	assert.NotEmpty(t, received[0].ID)
}

func TestTokenRejectedCarriesInternalReason(t *testing.T) {
	event := TokenRejected("/api/admin/x", assert.AnError)

	payload, ok := event.Payload.(TokenRejectedPayload)
	require.True(t, ok)
	assert.Equal(t, "/api/admin/x", payload.Path)
	assert.Equal(t, assert.AnError.Error(), payload.Reason)
}
