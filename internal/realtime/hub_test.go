package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToUserTargetsEveryConnectionOfTheUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	otherID := uuid.New()

	first := NewClient(userID, nil)
	second := NewClient(userID, nil)
	stranger := NewClient(otherID, nil)

	hub.RegisterClient(first)
	hub.RegisterClient(second)
	hub.RegisterClient(stranger)

	payload := []byte(`{"channel":"project_messages:p1","event":"insert"}`)
	require.Eventually(t, func() bool {
		hub.SendToUser(userID, payload)
		select {
		case <-first.Send:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	select {
	case got := <-second.Send:
		assert.Equal(t, payload, got)
	case <-time.After(time.Second):
		t.Fatal("second connection never received the payload")
	}

	assert.Empty(t, stranger.Send)
}

func TestFanoutOnlyReachesSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscriber := NewClient(uuid.New(), nil)
	subscriber.Subscribe("inquiries")
	bystander := NewClient(uuid.New(), nil)

	hub.RegisterClient(subscriber)
	hub.RegisterClient(bystander)

	payload := []byte(`{"channel":"inquiries","event":"update"}`)
	hub.Fanout("inquiries", payload)

	select {
	case got := <-subscriber.Send:
		assert.Equal(t, payload, got)
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the payload")
	}

	assert.Empty(t, bystander.Send)
}
