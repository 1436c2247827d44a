package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicket_QRPayload(t *testing.T) {
	ticket := &Ticket{TicketID: 15, EventID: 3, UserID: 7}

	assert.Equal(t, "cfvr7153", ticket.QRPayload())
}

func TestQRCodeURL(t *testing.T) {
	url := QRCodeURL("https://api.qrserver.com/v1/create-qr-code/", "cfvr 7&1")

	assert.Equal(t, "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data=cfvr+7%261", url)
	assert.Equal(t, "http://qr.local/render?fmt=png&size=150x150&data=cfvr1", QRCodeURL("http://qr.local/render?fmt=png", "cfvr1"))
}

func TestGroupTicketsByEvent_KeepsResponseOrder(t *testing.T) {
	tickets := []*Ticket{
		{TicketID: 1, EventName: "Rock Night"},
		{TicketID: 2, EventName: "Art Expo"},
		{TicketID: 3, EventName: "Rock Night"},
		{TicketID: 4, EventName: "Chess Open"},
	}

	groups := GroupTicketsByEvent(tickets)

	require.Len(t, groups, 3)
	assert.Equal(t, "Rock Night", groups[0].EventName)
	assert.Equal(t, "Art Expo", groups[1].EventName)
	assert.Equal(t, "Chess Open", groups[2].EventName)
	require.Len(t, groups[0].Tickets, 2)
	assert.Equal(t, 1, groups[0].Tickets[0].TicketID)
	assert.Equal(t, 3, groups[0].Tickets[1].TicketID)
}

func TestGroupTicketsByEvent_Empty(t *testing.T) {
	assert.Empty(t, GroupTicketsByEvent(nil))
}
