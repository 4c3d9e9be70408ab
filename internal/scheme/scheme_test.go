package scheme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membership-sim/internal/cost"
)

func TestLookupRegistered(t *testing.T) {
	for _, name := range Names() {
		p, err := Lookup(name, DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
		assert.NotEmpty(t, p.Description())
	}
	assert.Equal(t, []string{"bkrsc", "cgkm"}, Names())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("nope", DefaultParams())
	if !errors.Is(err, ErrUnknownScheme) {
		t.Fatalf("expected ErrUnknownScheme, got %v", err)
	}
}

func TestBKRSCTable(t *testing.T) {
	m := NewBKRSC(DefaultParams()).Metrics(Network{TotalDevices: 100, GatewayGroupSize: 10, AvgNeighbors: 12})

	c := m.At(cost.Energy, cost.Compromised, cost.ParticipantConstrained)
	assert.Equal(t, cost.Exchange{Sent: 1, Received: 1}, c.Exchange)
	assert.InDelta(t, 0.0002, c.Cost(), 1e-12)
	assert.Equal(t, uint32(10), c.InvolvedDevices)

	gw := m.At(cost.Energy, cost.Compromised, cost.ParticipantGateway)
	assert.Equal(t, uint32(100), gw.Exchange.Received)
	assert.Equal(t, 0.0, gw.Cost())

	assert.Equal(t, uint32(10), m.At(cost.Communication, cost.Draining, cost.ParticipantGateway).Exchange.Received)
	assert.Equal(t, uint32(12), m.At(cost.Communication, cost.Leaving, cost.ParticipantGateway).Exchange.Received)
	assert.InDelta(t, 16*1+16*12.0, m.At(cost.Communication, cost.Leaving, cost.ParticipantGateway).Cost(), 1e-9)
	assert.Equal(t, cost.Exchange{Sent: 1, Received: 1}, m.At(cost.Energy, cost.Leaving, cost.ParticipantLeft).Exchange)
	assert.Equal(t, cost.Exchange{}, m.At(cost.Energy, cost.Compromised, cost.ParticipantLeft).Exchange)
}

func TestBKRSCUsesParams(t *testing.T) {
	p := Params{EnergyPerSentBit: 1, EnergyPerReceivedBit: 2, SentMessageSize: 3, ReceivedMessageSize: 4}
	m := NewBKRSC(p).Metrics(Network{TotalDevices: 10, GatewayGroupSize: 2, AvgNeighbors: 3})
	assert.InDelta(t, 3.0, m.At(cost.Energy, cost.Draining, cost.ParticipantConstrained).Cost(), 1e-12)
	assert.InDelta(t, 7.0, m.At(cost.Communication, cost.Draining, cost.ParticipantConstrained).Cost(), 1e-12)
}

func TestCGKMScalesWithGroup(t *testing.T) {
	small := NewCGKM(DefaultParams()).Metrics(Network{TotalDevices: 50, GatewayGroupSize: 5, AvgNeighbors: 4})
	large := NewCGKM(DefaultParams()).Metrics(Network{TotalDevices: 50, GatewayGroupSize: 20, AvgNeighbors: 4})

	assert.Equal(t, uint32(4), small.At(cost.Communication, cost.Leaving, cost.ParticipantGateway).Exchange.Sent)
	assert.Equal(t, uint32(19), large.At(cost.Communication, cost.Leaving, cost.ParticipantGateway).Exchange.Sent)
	assert.Equal(t, uint32(5), small.At(cost.Energy, cost.Compromised, cost.ParticipantConstrained).Exchange.Sent)
}

func TestCGKMEmptyGroup(t *testing.T) {
	m := NewCGKM(DefaultParams()).Metrics(Network{TotalDevices: 1})
	assert.Equal(t, uint32(0), m.At(cost.Communication, cost.Draining, cost.ParticipantGateway).Exchange.Sent)
}
