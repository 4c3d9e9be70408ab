package scheme

import "membership-sim/internal/cost"

// BKRSC is scheme A. A disrupted constrained device exchanges one message
// pair with its gateway group; the gateway collects the reports (from every
// device on compromise, from the group on drain, from neighbors on leave).
// Gateways are mains powered, so their energy entries cost nothing.
type BKRSC struct {
	p Params
}

// NewBKRSC returns the scheme A provider.
func NewBKRSC(p Params) *BKRSC { return &BKRSC{p: p} }

func (s *BKRSC) Name() string { return "bkrsc" }

func (s *BKRSC) Description() string {
	return "group-based key revocation: one report per device, gateway aggregates"
}

// Metrics builds the scheme A table.
func (s *BKRSC) Metrics(n Network) *cost.Metrics {
	m := &cost.Metrics{}
	eps, epr := s.p.EnergyPerSentBit, s.p.EnergyPerReceivedBit
	sms, rms := float64(s.p.SentMessageSize), float64(s.p.ReceivedMessageSize)
	group := n.GatewayGroupSize

	row(m, cost.Energy, cost.Compromised,
		entry(1, 1, eps, epr, group),
		entry(1, n.TotalDevices, 0, 0, 1),
		entry(0, 0, eps, epr, 0))
	row(m, cost.Energy, cost.Draining,
		entry(1, 1, eps, epr, group),
		entry(1, group, 0, 0, 1),
		entry(0, 0, eps, epr, 0))
	row(m, cost.Energy, cost.Leaving,
		entry(1, 1, eps, epr, group),
		entry(1, n.AvgNeighbors, 0, 0, 1),
		entry(1, 1, eps, epr, 0))

	row(m, cost.Communication, cost.Compromised,
		entry(1, 1, sms, rms, group),
		entry(1, n.TotalDevices, sms, rms, 1),
		entry(0, 0, sms, rms, 0))
	row(m, cost.Communication, cost.Draining,
		entry(1, 1, sms, rms, group),
		entry(1, group, sms, rms, 1),
		entry(0, 0, sms, rms, 0))
	row(m, cost.Communication, cost.Leaving,
		entry(1, 1, sms, rms, group),
		entry(1, n.AvgNeighbors, sms, rms, 1),
		entry(1, 1, sms, rms, 0))

	return m
}
