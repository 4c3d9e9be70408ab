package scenario

import "sort"

func intp(v int) *int { return &v }

// BuiltIn returns the predefined sweeps.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		"baseline": {
			Name:        "baseline",
			Description: "100 devices with 10 gateways, degree caps 10..15 and ten devices disrupted at a time.",
			Variants: []Variant{{
				Name:         "k10",
				TotalDevices: intp(100),
				GatewayCount: intp(10),
				MinNeighbors: intp(10),
				MaxNeighbors: intp(15),
				MinAffected:  intp(10),
				MaxAffected:  intp(10),
			}},
		},
		"dense": {
			Name:        "dense",
			Description: "Same population with increasingly meshed neighborhoods.",
			Variants: []Variant{
				{Name: "deg5-10", MinNeighbors: intp(5), MaxNeighbors: intp(10)},
				{Name: "deg10-15", MinNeighbors: intp(10), MaxNeighbors: intp(15)},
				{Name: "deg20-30", MinNeighbors: intp(20), MaxNeighbors: intp(30)},
			},
		},
		"sparse": {
			Name:        "sparse",
			Description: "Thin meshes where many devices stay below their degree cap.",
			Variants: []Variant{
				{Name: "deg1-3", MinNeighbors: intp(1), MaxNeighbors: intp(3), GatewayCount: intp(5)},
				{Name: "deg2-5", MinNeighbors: intp(2), MaxNeighbors: intp(5), GatewayCount: intp(10)},
			},
		},
		"scale": {
			Name:        "scale",
			Description: "Growing populations with a constant 10% gateway share.",
			Variants: []Variant{
				{Name: "n100", TotalDevices: intp(100), GatewayCount: intp(10)},
				{Name: "n250", TotalDevices: intp(250), GatewayCount: intp(25)},
				{Name: "n500", TotalDevices: intp(500), GatewayCount: intp(50)},
				{Name: "n1000", TotalDevices: intp(1000), GatewayCount: intp(100), MaxAffected: intp(50)},
			},
		},
	}
}

// Names lists the built-in scenario names in sorted order.
func Names() []string {
	b := BuiltIn()
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
