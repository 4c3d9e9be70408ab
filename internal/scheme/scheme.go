// Cost-table providers for the compared membership schemes
package scheme

import (
	"errors"
	"fmt"
	"sort"

	"membership-sim/internal/cost"
)

// Fallback values used when a parameter is not configured.
const (
	DefaultEnergyPerBit = 0.0001
	DefaultMessageSize  = 16
)

// ErrUnknownScheme is returned by Lookup for unregistered names.
var ErrUnknownScheme = errors.New("unknown scheme")

// Params carries the numeric constants shared by scheme tables.
type Params struct {
	EnergyPerSentBit     float64 `yaml:"energy_per_sent_bit" json:"energy_per_sent_bit"`
	EnergyPerReceivedBit float64 `yaml:"energy_per_received_bit" json:"energy_per_received_bit"`
	SentMessageSize      uint32  `yaml:"sent_message_size" json:"sent_message_size"`
	ReceivedMessageSize  uint32  `yaml:"received_message_size" json:"received_message_size"`
}

// DefaultParams returns the documented fallback constants.
func DefaultParams() Params {
	return Params{
		EnergyPerSentBit:     DefaultEnergyPerBit,
		EnergyPerReceivedBit: DefaultEnergyPerBit,
		SentMessageSize:      DefaultMessageSize,
		ReceivedMessageSize:  DefaultMessageSize,
	}
}

// Network describes the population a table is built for.
type Network struct {
	TotalDevices     uint32
	GatewayGroupSize uint32
	AvgNeighbors     uint32
}

// Provider builds the cost table of one scheme.
type Provider interface {
	Name() string
	Description() string
	Metrics(n Network) *cost.Metrics
}

// Factory creates a provider from shared parameters.
type Factory func(Params) Provider

var registry = map[string]Factory{
	"bkrsc": func(p Params) Provider { return NewBKRSC(p) },
	"cgkm":  func(p Params) Provider { return NewCGKM(p) },
}

// Lookup returns the provider registered under name.
func Lookup(name string, p Params) (Provider, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return f(p), nil
}

// Names lists registered scheme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func entry(sent, received uint32, sentCost, receivedCost float64, involved uint32) cost.StateCost {
	return cost.StateCost{
		Exchange:        cost.Exchange{Sent: sent, Received: received},
		ExchangeCost:    cost.ExchangeCost{Sent: sentCost, Received: receivedCost},
		InvolvedDevices: involved,
	}
}

// row sets the three participant entries of one (metric, status) pair.
func row(m *cost.Metrics, metric cost.MetricKind, status cost.Status, constrained, gateway, left cost.StateCost) {
	m.Set(metric, status, cost.ParticipantConstrained, constrained)
	m.Set(metric, status, cost.ParticipantGateway, gateway)
	m.Set(metric, status, cost.ParticipantLeft, left)
}
