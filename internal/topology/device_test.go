package topology

import "testing"

func testSet(t *testing.T) DeviceSet {
	t.Helper()
	devices, err := Generate(newRand(11), GenerateOptions{TotalDevices: 20, GatewayCount: 2, MinDegree: 2, MaxDegree: 4})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return devices
}

func TestMarkCompromisedThenFilter(t *testing.T) {
	devices := testSet(t)
	devices.MarkCompromised(newRand(1), 5)

	got := devices.FilterCompromised()
	if len(got) != 5 {
		t.Fatalf("expected 5 compromised devices, got %d", len(got))
	}
	for _, d := range got {
		if d.Compromised || d.Leaving || d.Draining {
			t.Fatalf("filtered copy %d should have flags cleared: %+v", d.ID, d)
		}
		if !devices[d.ID].Compromised || devices[d.ID].Leaving || devices[d.ID].Draining {
			t.Fatalf("live device %d has unexpected flags: %+v", d.ID, devices[d.ID])
		}
	}
}

func TestMarkTruncatesToPopulation(t *testing.T) {
	devices := testSet(t)
	devices.MarkLeaving(newRand(2), 500)
	if n := len(devices.FilterLeaving()); n != len(devices) {
		t.Fatalf("expected all %d devices leaving, got %d", len(devices), n)
	}
	devices.Reset()
	devices.MarkDraining(newRand(2), len(devices))
	if n := devices.Count(FlagDraining); n != len(devices) {
		t.Fatalf("expected all devices draining, got %d", n)
	}
}

func TestMarkNonPositive(t *testing.T) {
	devices := testSet(t)
	devices.MarkCompromised(newRand(3), 0)
	devices.MarkCompromised(newRand(3), -4)
	if n := devices.Count(FlagCompromised); n != 0 {
		t.Fatalf("expected no compromised devices, got %d", n)
	}
}

func TestMarksAreIndependent(t *testing.T) {
	devices := testSet(t)
	devices.MarkLeaving(newRand(4), len(devices))
	devices.MarkCompromised(newRand(5), 3)
	if devices.Count(FlagLeaving) != len(devices) || devices.Count(FlagCompromised) != 3 {
		t.Fatalf("marks should accumulate until reset")
	}
}

func TestFilterDeepCopies(t *testing.T) {
	devices := testSet(t)
	devices.MarkDraining(newRand(6), 1)
	copies := devices.FilterDraining()
	if len(copies) != 1 {
		t.Fatalf("expected one draining device, got %d", len(copies))
	}
	c := copies[0]
	orig := devices[c.ID]
	if c == orig {
		t.Fatalf("filter returned the live device")
	}
	if c.Role != orig.Role || c.MaxDegree != orig.MaxDegree || len(c.Neighbors) != len(orig.Neighbors) {
		t.Fatalf("copy differs from original: %+v vs %+v", c, orig)
	}
	if len(c.Neighbors) > 0 {
		c.Neighbors[0] = -1
		if orig.Neighbors[0] == -1 {
			t.Fatalf("neighbor slice shared with live device")
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	devices := testSet(t)
	devices.MarkCompromised(newRand(7), 4)
	devices.MarkLeaving(newRand(8), 4)
	devices.MarkDraining(newRand(9), 4)
	devices.Reset()
	devices.Reset()
	if len(devices.FilterCompromised()) != 0 || len(devices.FilterLeaving()) != 0 || len(devices.FilterDraining()) != 0 {
		t.Fatalf("expected all filters empty after reset")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	devices := testSet(t)
	devices.MarkCompromised(newRand(10), 2)
	clone := devices.Clone()
	if clone.Count(FlagCompromised) != 2 {
		t.Fatalf("clone should keep flags")
	}
	clone.Reset()
	if devices.Count(FlagCompromised) != 2 {
		t.Fatalf("resetting the clone changed the original")
	}
	if err := clone.Validate(); err != nil {
		t.Fatalf("clone invalid: %v", err)
	}
}
