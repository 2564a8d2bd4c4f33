package queue

import (
	"reflect"
	"testing"
)

func queueOf(items ...string) *Queue[string] {
	q := New[string]()
	for _, item := range items {
		q.EnqueueLast(item)
	}
	return q
}

func TestTryDequeueEmpty(t *testing.T) {
	q := New[string]()
	item, ok := q.TryDequeue()
	if ok || item != "" {
		t.Errorf("expected (zero, false) on empty queue, got (%q, %v)", item, ok)
	}
}

func TestTryPeekEmpty(t *testing.T) {
	q := New[string]()
	if _, ok := q.TryPeek(); ok {
		t.Error("expected false on empty queue")
	}
}

func TestFIFOOrder(t *testing.T) {
	q := queueOf("a", "b", "c")
	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.TryDequeue()
		if !ok || got != want {
			t.Fatalf("expected %q, got (%q, %v)", want, got, ok)
		}
	}
	if q.Count() != 0 {
		t.Errorf("queue should be empty, has %d items", q.Count())
	}
}

func TestEnqueueFirstReversedBatchKeepsOrder(t *testing.T) {
	q := New[string]()
	batch := []string{"t1", "t2", "t3"}
	for i := len(batch) - 1; i >= 0; i-- {
		q.EnqueueFirst(batch[i])
	}
	if got := q.GetAll(); !reflect.DeepEqual(got, batch) {
		t.Errorf("expected %v, got %v", batch, got)
	}
}

func TestSkipToOutOfRangeIsNoOp(t *testing.T) {
	for _, i := range []int{-1, 3, 100} {
		q := queueOf("a", "b", "c")
		q.SkipTo(i)
		if got := q.GetAll(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Errorf("SkipTo(%d) mutated the queue: %v", i, got)
		}
	}
}

func TestSkipToValidIndex(t *testing.T) {
	q := queueOf("a", "b", "c", "d")
	q.SkipTo(2)
	if got := q.GetAll(); !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Errorf("expected [c d], got %v", got)
	}
}

func TestSkipToThenEnqueueFirstScenario(t *testing.T) {
	q := queueOf("A", "B", "C")
	q.SkipTo(2)
	if got := q.GetAll(); !reflect.DeepEqual(got, []string{"C"}) {
		t.Fatalf("expected [C], got %v", got)
	}
	q.EnqueueFirst("D")
	if got := q.GetAll(); !reflect.DeepEqual(got, []string{"D", "C"}) {
		t.Errorf("expected [D C], got %v", got)
	}
}

func TestShuffleSmallQueuesAreStable(t *testing.T) {
	empty := New[string]()
	empty.Shuffle()
	if empty.Count() != 0 {
		t.Error("shuffle of empty queue changed it")
	}

	single := queueOf("only")
	single.Shuffle()
	if got := single.GetAll(); !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("shuffle of single-item queue changed it: %v", got)
	}
}

func TestShuffleKeepsAllItems(t *testing.T) {
	q := queueOf("a", "b", "c", "d", "e")
	q.Shuffle()
	got := q.GetAll()
	if len(got) != 5 {
		t.Fatalf("shuffle changed the item count: %d", len(got))
	}
	seen := make(map[string]bool)
	for _, item := range got {
		seen[item] = true
	}
	for _, want := range []string{"a", "b", "c", "d", "e"} {
		if !seen[want] {
			t.Errorf("shuffle lost item %q", want)
		}
	}
}

func TestGetAllIsASnapshot(t *testing.T) {
	q := queueOf("a", "b")
	snapshot := q.GetAll()
	q.TryDequeue()
	q.Clear()
	if !reflect.DeepEqual(snapshot, []string{"a", "b"}) {
		t.Errorf("snapshot changed after mutation: %v", snapshot)
	}
}
