// Device and device-set types for the simulated constrained network
package topology

import (
	"fmt"
	"math/rand/v2"
)

// Role distinguishes gateways from constrained devices.
type Role int

const (
	RoleGateway Role = iota
	RoleConstrained
)

func (r Role) String() string {
	switch r {
	case RoleGateway:
		return "gateway"
	case RoleConstrained:
		return "constrained"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Flag names one of the transient per-device disruption flags.
type Flag int

const (
	FlagCompromised Flag = iota
	FlagLeaving
	FlagDraining
)

func (f Flag) String() string {
	switch f {
	case FlagCompromised:
		return "compromised"
	case FlagLeaving:
		return "leaving"
	case FlagDraining:
		return "draining"
	default:
		return fmt.Sprintf("flag(%d)", int(f))
	}
}

// Device is one node of the simulated network.
type Device struct {
	ID          int   `json:"id"`
	Role        Role  `json:"role"`
	Neighbors   []int `json:"neighbors"`
	MaxDegree   int   `json:"max_degree"`
	Compromised bool  `json:"compromised"`
	Leaving     bool  `json:"leaving"`
	Draining    bool  `json:"draining"`
}

func newDevice(id int, role Role, neighbors []int, maxDegree int) *Device {
	return &Device{ID: id, Role: role, Neighbors: neighbors, MaxDegree: maxDegree}
}

// Degree returns the current neighbor count.
func (d *Device) Degree() int { return len(d.Neighbors) }

// HasNeighbor reports whether id is adjacent to d.
func (d *Device) HasNeighbor(id int) bool {
	for _, n := range d.Neighbors {
		if n == id {
			return true
		}
	}
	return false
}

func (d *Device) flag(f Flag) bool {
	switch f {
	case FlagCompromised:
		return d.Compromised
	case FlagLeaving:
		return d.Leaving
	case FlagDraining:
		return d.Draining
	}
	return false
}

func (d *Device) setFlag(f Flag) {
	switch f {
	case FlagCompromised:
		d.Compromised = true
	case FlagLeaving:
		d.Leaving = true
	case FlagDraining:
		d.Draining = true
	}
}

// copyClean returns a deep copy of d with every flag cleared.
func (d *Device) copyClean() *Device {
	neighbors := make([]int, len(d.Neighbors))
	copy(neighbors, d.Neighbors)
	return newDevice(d.ID, d.Role, neighbors, d.MaxDegree)
}

// DeviceSet is the dense, id-ordered device collection. ID always equals index.
type DeviceSet []*Device

// Mark flags min(k, len(s)) devices chosen uniformly at random without
// replacement. Flags set by earlier calls are left untouched.
func (s DeviceSet) Mark(rng *rand.Rand, f Flag, k int) {
	if k <= 0 {
		return
	}
	ids := rng.Perm(len(s))
	if k < len(ids) {
		ids = ids[:k]
	}
	for _, id := range ids {
		s[id].setFlag(f)
	}
}

// MarkCompromised flags k random devices as compromised.
func (s DeviceSet) MarkCompromised(rng *rand.Rand, k int) { s.Mark(rng, FlagCompromised, k) }

// MarkLeaving flags k random devices as leaving.
func (s DeviceSet) MarkLeaving(rng *rand.Rand, k int) { s.Mark(rng, FlagLeaving, k) }

// MarkDraining flags k random devices as draining.
func (s DeviceSet) MarkDraining(rng *rand.Rand, k int) { s.Mark(rng, FlagDraining, k) }

// Filter returns flag-free deep copies of every device carrying f.
func (s DeviceSet) Filter(f Flag) DeviceSet {
	out := DeviceSet{}
	for _, d := range s {
		if d.flag(f) {
			out = append(out, d.copyClean())
		}
	}
	return out
}

func (s DeviceSet) FilterCompromised() DeviceSet { return s.Filter(FlagCompromised) }
func (s DeviceSet) FilterLeaving() DeviceSet     { return s.Filter(FlagLeaving) }
func (s DeviceSet) FilterDraining() DeviceSet    { return s.Filter(FlagDraining) }

// Count returns how many devices currently carry f.
func (s DeviceSet) Count(f Flag) int {
	n := 0
	for _, d := range s {
		if d.flag(f) {
			n++
		}
	}
	return n
}

// Reset clears all transient flags.
func (s DeviceSet) Reset() {
	for _, d := range s {
		d.Compromised = false
		d.Leaving = false
		d.Draining = false
	}
}

// Clone deep-copies the set including flags.
func (s DeviceSet) Clone() DeviceSet {
	out := make(DeviceSet, len(s))
	for i, d := range s {
		c := d.copyClean()
		c.Compromised, c.Leaving, c.Draining = d.Compromised, d.Leaving, d.Draining
		out[i] = c
	}
	return out
}
