package scheme

import "membership-sim/internal/cost"

// CGKM is scheme B, a centralized group key management baseline. Every
// disruption makes the gateway unicast a fresh group key to each remaining
// member, and constrained devices re-establish pairwise keys with their
// neighbors after a compromise.
type CGKM struct {
	p Params
}

// NewCGKM returns the scheme B provider.
func NewCGKM(p Params) *CGKM { return &CGKM{p: p} }

func (s *CGKM) Name() string { return "cgkm" }

func (s *CGKM) Description() string {
	return "centralized group rekeying: gateway unicasts a new key to every member"
}

// Metrics builds the scheme B table.
func (s *CGKM) Metrics(n Network) *cost.Metrics {
	m := &cost.Metrics{}
	eps, epr := s.p.EnergyPerSentBit, s.p.EnergyPerReceivedBit
	sms, rms := float64(s.p.SentMessageSize), float64(s.p.ReceivedMessageSize)
	group := n.GatewayGroupSize
	remaining := group
	if remaining > 0 {
		remaining--
	}
	pairwise := n.AvgNeighbors + 1

	row(m, cost.Energy, cost.Compromised,
		entry(pairwise, pairwise, eps, epr, group),
		entry(remaining, 1, 0, 0, 1),
		entry(0, 0, eps, epr, 0))
	row(m, cost.Energy, cost.Draining,
		entry(1, 2, eps, epr, group),
		entry(remaining, 1, 0, 0, 1),
		entry(0, 0, eps, epr, 0))
	row(m, cost.Energy, cost.Leaving,
		entry(1, 2, eps, epr, group),
		entry(remaining, 1, 0, 0, 1),
		entry(1, 1, eps, epr, 0))

	row(m, cost.Communication, cost.Compromised,
		entry(pairwise, pairwise, sms, rms, group),
		entry(remaining, 1, sms, rms, 1),
		entry(0, 0, sms, rms, 0))
	row(m, cost.Communication, cost.Draining,
		entry(1, 2, sms, rms, group),
		entry(remaining, 1, sms, rms, 1),
		entry(0, 0, sms, rms, 0))
	row(m, cost.Communication, cost.Leaving,
		entry(1, 2, sms, rms, group),
		entry(remaining, 1, sms, rms, 1),
		entry(1, 1, sms, rms, 0))

	return m
}
