package gamesound

import "testing"

func TestVoiceTableAllocateSkipsBusySlots(t *testing.T) {
	vt := newVoiceTable(3)
	s0, ok := vt.allocate(1)
	if !ok || s0 != 0 {
		t.Fatalf("first allocation: got slot %d ok=%v", s0, ok)
	}
	vt.slots[0].flags |= voicePlaying

	s1, ok := vt.allocate(2)
	if !ok || s1 == s0 {
		t.Fatalf("allocation must not target a playing slot: got %d", s1)
	}
	vt.slots[s1].flags |= voicePaused

	s2, ok := vt.allocate(3)
	if !ok || s2 == s0 || s2 == s1 {
		t.Fatalf("allocation must not target a paused slot: got %d", s2)
	}
}

func TestVoiceTableExhaustion(t *testing.T) {
	vt := newVoiceTable(2)
	for i := 0; i < 2; i++ {
		slot, ok := vt.allocate(0)
		if !ok {
			t.Fatalf("allocation %d failed", i)
		}
		vt.slots[slot].flags |= voicePlaying
	}
	if slot, ok := vt.allocate(0); ok {
		t.Fatalf("allocation should fail with all voices busy, got slot %d", slot)
	}
}

func TestVoiceTableGenerationMonotonic(t *testing.T) {
	vt := newVoiceTable(1)
	seen := map[uint32]bool{}
	const n = 100
	for i := 0; i < n; i++ {
		slot, ok := vt.allocate(0)
		if !ok {
			t.Fatalf("allocation %d failed", i)
		}
		gen := vt.slots[slot].generation
		if seen[gen] {
			t.Fatalf("generation %d repeated after %d allocations", gen, i)
		}
		seen[gen] = true
		// Slot is free again: active but neither playing nor paused.
	}
}

func TestVoiceTableGenerationWrap(t *testing.T) {
	vt := newVoiceTable(1)
	vt.slots[0].generation = genMask
	slot, _ := vt.allocate(0)
	if got := vt.slots[slot].generation; got != 0 {
		t.Fatalf("generation should wrap to 0, got %d", got)
	}
}

func TestVoiceTableStaleGenerationNotLive(t *testing.T) {
	vt := newVoiceTable(1)
	slot, _ := vt.allocate(5)
	gen := vt.slots[slot].generation
	if !vt.isLive(slot, 5, gen) {
		t.Fatal("fresh allocation should be live")
	}

	// Reallocate the same slot; the old session must die.
	vt.allocate(5)
	if vt.isLive(slot, 5, gen) {
		t.Fatal("handle from the previous allocation is still live")
	}
}

func TestVoiceTableIsLiveChecksAllFields(t *testing.T) {
	vt := newVoiceTable(2)
	slot, _ := vt.allocate(7)
	gen := vt.slots[slot].generation

	if vt.isLive(slot, 8, gen) {
		t.Fatal("wrong buffer should not be live")
	}
	if vt.isLive(slot+1, 7, gen) {
		t.Fatal("wrong slot should not be live")
	}
	if vt.isLive(-1, 7, gen) || vt.isLive(99, 7, gen) {
		t.Fatal("out-of-range slot should not be live")
	}

	vt.slots[slot].flags = 0
	if vt.isLive(slot, 7, gen) {
		t.Fatal("inactive slot should not be live")
	}
}
