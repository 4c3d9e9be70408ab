// Cost tables keyed by metric, disruption kind and participant
package cost

import (
	"fmt"
	"strings"

	"membership-sim/internal/topology"
)

// MetricKind selects the cost dimension.
type MetricKind int

const (
	Energy MetricKind = iota
	Communication
	numMetricKinds
)

func (m MetricKind) String() string {
	switch m {
	case Energy:
		return "energy"
	case Communication:
		return "communication"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Status is the disruption kind applied to a set of devices.
type Status int

const (
	Compromised Status = iota
	Leaving
	Draining
	numStatuses
)

// Statuses lists every disruption kind in driver order.
var Statuses = []Status{Compromised, Leaving, Draining}

func (s Status) String() string {
	switch s {
	case Compromised:
		return "compromised"
	case Leaving:
		return "leaving"
	case Draining:
		return "draining"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Flag maps the disruption kind onto the device flag it sets.
func (s Status) Flag() topology.Flag {
	switch s {
	case Leaving:
		return topology.FlagLeaving
	case Draining:
		return topology.FlagDraining
	default:
		return topology.FlagCompromised
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names produced by String.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatus converts a disruption name into a Status.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(name) {
	case "compromised":
		return Compromised, nil
	case "leaving":
		return Leaving, nil
	case "draining":
		return Draining, nil
	}
	return 0, fmt.Errorf("unknown disruption kind %q", name)
}

// RoleFilter restricts aggregation to a subset of devices.
type RoleFilter int

const (
	FilterConstrained RoleFilter = iota
	FilterGateway
	FilterAll
)

func (f RoleFilter) String() string {
	switch f {
	case FilterConstrained:
		return "constrained"
	case FilterGateway:
		return "gateway"
	case FilterAll:
		return "all"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// ParseRoleFilter converts a filter name into a RoleFilter.
func ParseRoleFilter(name string) (RoleFilter, error) {
	switch strings.ToLower(name) {
	case "", "constrained":
		return FilterConstrained, nil
	case "gateway":
		return FilterGateway, nil
	case "all":
		return FilterAll, nil
	}
	return 0, fmt.Errorf("unknown role filter %q", name)
}

func (f RoleFilter) matches(r topology.Role) bool {
	switch f {
	case FilterConstrained:
		return r == topology.RoleConstrained
	case FilterGateway:
		return r == topology.RoleGateway
	case FilterAll:
		return true
	}
	return false
}

// Participant is a column of the cost table. Left covers a device that has
// already transitioned out of the group.
type Participant int

const (
	ParticipantConstrained Participant = iota
	ParticipantGateway
	ParticipantLeft
	numParticipants
)

func (p Participant) String() string {
	switch p {
	case ParticipantConstrained:
		return "constrained"
	case ParticipantGateway:
		return "gateway"
	case ParticipantLeft:
		return "left"
	default:
		return fmt.Sprintf("participant(%d)", int(p))
	}
}

// ParticipantOf returns the table column used for a device role.
func ParticipantOf(r topology.Role) Participant {
	if r == topology.RoleGateway {
		return ParticipantGateway
	}
	return ParticipantConstrained
}

// Exchange counts messages sent and received.
type Exchange struct {
	Sent     uint32 `json:"sent" yaml:"sent"`
	Received uint32 `json:"received" yaml:"received"`
}

// ExchangeCost is the per-message cost of each direction.
type ExchangeCost struct {
	Sent     float64 `json:"sent" yaml:"sent"`
	Received float64 `json:"received" yaml:"received"`
}

// StateCost is one table entry.
type StateCost struct {
	Exchange        Exchange     `json:"exchange" yaml:"exchange"`
	ExchangeCost    ExchangeCost `json:"exchange_cost" yaml:"exchange_cost"`
	InvolvedDevices uint32       `json:"involved_devices" yaml:"involved_devices"`
}

// Cost returns sent×cost(sent) + received×cost(received).
func (c StateCost) Cost() float64 {
	return float64(c.Exchange.Sent)*c.ExchangeCost.Sent + float64(c.Exchange.Received)*c.ExchangeCost.Received
}

// Metrics is the full cost table of a scheme.
type Metrics struct {
	entries [numMetricKinds][numStatuses][numParticipants]StateCost
}

// At returns the entry for (metric, status, participant).
func (m *Metrics) At(metric MetricKind, status Status, p Participant) StateCost {
	return m.entries[metric][status][p]
}

// Set stores the entry for (metric, status, participant).
func (m *Metrics) Set(metric MetricKind, status Status, p Participant, c StateCost) {
	m.entries[metric][status][p] = c
}

// Lookup returns the entry that applies to a device of the given role.
func (m *Metrics) Lookup(metric MetricKind, status Status, r topology.Role) StateCost {
	return m.At(metric, status, ParticipantOf(r))
}

// Entry is a flattened table cell, used when dumping a table.
type Entry struct {
	Metric      string    `json:"metric" yaml:"metric"`
	Status      string    `json:"status" yaml:"status"`
	Participant string    `json:"participant" yaml:"participant"`
	Cost        StateCost `json:"cost" yaml:"cost"`
}

// Entries lists every cell in metric, status, participant order.
func (m *Metrics) Entries() []Entry {
	out := make([]Entry, 0, int(numMetricKinds)*int(numStatuses)*int(numParticipants))
	for mk := MetricKind(0); mk < numMetricKinds; mk++ {
		for st := Status(0); st < numStatuses; st++ {
			for p := Participant(0); p < numParticipants; p++ {
				out = append(out, Entry{Metric: mk.String(), Status: st.String(), Participant: p.String(), Cost: m.At(mk, st, p)})
			}
		}
	}
	return out
}
