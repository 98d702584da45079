package v1

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcastillob/rifas/internal/domain"
)

func TestTicketFeed_PublishReachesRaffleViewersOnly(t *testing.T) {
	feed := NewTicketFeed()
	go feed.Run()

	viewer := &feedClient{send: make(chan []byte, 1), raffleID: 1}
	other := &feedClient{send: make(chan []byte, 1), raffleID: 2}
	feed.register <- viewer
	feed.register <- other

	feed.Publish(1, domain.Ticket{RaffleID: 1, Number: 7, Status: domain.TicketStatusSold})

	select {
	case payload := <-viewer.send:
		var ticket domain.Ticket
		require.NoError(t, json.Unmarshal(payload, &ticket))
		assert.Equal(t, 7, ticket.Number)
		assert.Equal(t, domain.TicketStatusSold, ticket.Status)
	case <-time.After(time.Second):
		t.Fatal("viewer never received the event")
	}

	select {
	case <-other.send:
		t.Fatal("viewer of another raffle received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTicketFeed_SlowViewerEvicted(t *testing.T) {
	feed := NewTicketFeed()

	slow := &feedClient{send: make(chan []byte), raffleID: 1}
	feed.add(slow)

	feed.fanOut(feedEvent{raffleID: 1, payload: []byte(`{}`)})

	_, open := <-slow.send
	assert.False(t, open, "slow viewer's channel closes on eviction")
	assert.NotContains(t, feed.clients, uint(1), "emptied raffle entry is dropped")
}

func TestTicketFeed_UnregisterClosesSend(t *testing.T) {
	feed := NewTicketFeed()
	go feed.Run()

	viewer := &feedClient{send: make(chan []byte, 1), raffleID: 1}
	feed.register <- viewer
	feed.unregister <- viewer

	select {
	case _, open := <-viewer.send:
		assert.False(t, open, "send channel closes on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}
