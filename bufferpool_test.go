package gamesound

import "testing"

func TestBufferPoolCacheHit(t *testing.T) {
	p := newBufferPool(4)
	a := p.acquire("shot")
	if a == nil {
		t.Fatal("acquire failed on empty pool")
	}
	p.markLoaded(a)

	b := p.acquire("shot")
	if b != a {
		t.Fatalf("same name should hit the same slot: got %d, want %d", b.index, a.index)
	}
}

func TestBufferPoolFillsFreeSlotsFirst(t *testing.T) {
	p := newBufferPool(3)
	seen := map[int]bool{}
	for _, name := range []string{"a", "b", "c"} {
		b := p.acquire(name)
		if b == nil {
			t.Fatalf("acquire(%q) failed with free slots remaining", name)
		}
		if seen[b.index] {
			t.Fatalf("slot %d handed out twice", b.index)
		}
		seen[b.index] = true
		p.markLoaded(b)
	}
}

func TestBufferPoolEvictsOldestUnreferenced(t *testing.T) {
	p := newBufferPool(3)
	var slots [3]*soundBuffer
	for i, name := range []string{"a", "b", "c"} {
		slots[i] = p.acquire(name)
		p.markLoaded(slots[i])
	}
	p.touch(slots[0], 30)
	p.touch(slots[1], 10) // oldest, but will be referenced
	p.touch(slots[2], 20) // oldest unreferenced
	slots[1].refCount = 1

	got := p.acquire("d")
	if got != slots[2] {
		t.Fatalf("evicted slot %d, want slot %d (oldest with refCount 0)", got.index, slots[2].index)
	}
	if got.name != "d" || got.active {
		t.Fatalf("evicted slot not reset: name=%q active=%v", got.name, got.active)
	}
	if _, ok := p.names["c"]; ok {
		t.Fatal("evicted name still present in the index")
	}
	if p.names["d"] != got.index {
		t.Fatal("new name not registered in the index")
	}
}

func TestBufferPoolEvictionTieBreaksLowestIndex(t *testing.T) {
	p := newBufferPool(3)
	for i, name := range []string{"a", "b", "c"} {
		b := p.acquire(name)
		p.markLoaded(b)
		p.touch(b, 5) // identical recency
		_ = i
	}
	got := p.acquire("d")
	if got.index != 0 {
		t.Fatalf("tie should evict the lowest index, got %d", got.index)
	}
}

func TestBufferPoolAllReferencedFails(t *testing.T) {
	p := newBufferPool(2)
	for _, name := range []string{"a", "b"} {
		b := p.acquire(name)
		p.markLoaded(b)
		b.refCount = 1
	}
	if got := p.acquire("c"); got != nil {
		t.Fatalf("acquire should fail when every slot is referenced, got slot %d", got.index)
	}
}

func TestBufferPoolRollbackFreesSlot(t *testing.T) {
	p := newBufferPool(1)
	b := p.acquire("bad")
	p.rollback(b)

	if _, ok := p.names["bad"]; ok {
		t.Fatal("rolled-back name still in the index")
	}
	c := p.acquire("good")
	if c == nil {
		t.Fatal("slot not reusable after rollback")
	}
	if c.name != "good" {
		t.Fatalf("slot carries stale state: name=%q", c.name)
	}
}

func TestBufferPoolReleasePanicsBelowZero(t *testing.T) {
	p := newBufferPool(1)
	b := p.acquire("x")
	b.refCount = 1
	p.release(b)

	defer func() {
		if recover() == nil {
			t.Fatal("release below zero should panic")
		}
	}()
	p.release(b)
}
