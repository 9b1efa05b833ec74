package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type saveCall struct {
	problemID string
	draft     Draft
}

// fakeStore records every SaveDraft call, flags overlapping calls for the
// same problem, and can hold a flush hostage per problem until the test
// releases it with the error of its choice.
type fakeStore struct {
	mu      sync.Mutex
	calls   []saveCall
	active  map[string]int
	overlap bool
	block   map[string]chan error
	delay   time.Duration
	drafts  map[string]Draft
	loadErr error

	started chan saveCall
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		active:  make(map[string]int),
		block:   make(map[string]chan error),
		drafts:  make(map[string]Draft),
		started: make(chan saveCall, 32),
	}
}

func (f *fakeStore) SaveDraft(ctx context.Context, problemID string, d Draft) error {
	f.mu.Lock()
	f.calls = append(f.calls, saveCall{problemID, d})
	f.active[problemID]++
	if f.active[problemID] > 1 {
		f.overlap = true
	}
	gate := f.block[problemID]
	delay := f.delay
	f.mu.Unlock()

	select {
	case f.started <- saveCall{problemID, d}:
	default:
	}

	var err error
	if gate != nil {
		err = <-gate
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	f.active[problemID]--
	if err == nil {
		f.drafts[problemID] = d
	}
	f.mu.Unlock()
	return err
}

func (f *fakeStore) LoadDraft(ctx context.Context, problemID string) (*Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	d, ok := f.drafts[problemID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeStore) callsFor(problemID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if c.problemID == problemID {
			out = append(out, c.draft.Code)
		}
	}
	return out
}

func saveAsync(c *Coordinator, problemID, code string) chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- c.Save(context.Background(), problemID, Draft{Code: code, Language: "c"})
	}()
	return ch
}

func waitErr(t *testing.T, ch chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("save did not settle in time")
		return nil
	}
}

func waitStarted(t *testing.T, f *fakeStore, code string) {
	t.Helper()
	select {
	case c := <-f.started:
		if c.draft.Code != code {
			t.Fatalf("flush started with code %q, want %q", c.draft.Code, code)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("flush with code %q never started", code)
	}
}

// waitBuffered polls until the problem holds a buffered draft with at least
// n waiters attached.
func waitBuffered(t *testing.T, c *Coordinator, problemID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		got := 0
		if st := c.keys[problemID]; st != nil && st.pending != nil {
			got = len(st.pending.waiters)
		}
		c.mu.Unlock()
		if got >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("never saw %d buffered waiters for %q", n, problemID)
}

func waitIdle(t *testing.T, c *Coordinator, problemID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !c.HasPendingWork(problemID) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("draft work for %q never drained", problemID)
}

func TestCoordinatorCoalescesBurstIntoTwoFlushes(t *testing.T) {
	store := newFakeStore()
	gate := make(chan error)
	store.block["two-sum"] = gate
	co := NewCoordinator(store, zerolog.Nop())

	errA := saveAsync(co, "two-sum", "a")
	waitStarted(t, store, "a")

	errB := saveAsync(co, "two-sum", "b")
	waitBuffered(t, co, "two-sum", 1)
	errC := saveAsync(co, "two-sum", "c")
	waitBuffered(t, co, "two-sum", 2)

	gate <- nil
	if err := waitErr(t, errA); err != nil {
		t.Fatalf("save a: %v", err)
	}

	waitStarted(t, store, "c")
	gate <- nil
	if err := waitErr(t, errB); err != nil {
		t.Fatalf("save b: %v", err)
	}
	if err := waitErr(t, errC); err != nil {
		t.Fatalf("save c: %v", err)
	}

	waitIdle(t, co, "two-sum")
	got := store.callsFor("two-sum")
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("store saw %v, want [a c]", got)
	}
	if store.overlap {
		t.Fatal("store saw overlapping saves for one problem")
	}
}

func TestCoordinatorFlushFailureDoesNotPoisonProblem(t *testing.T) {
	store := newFakeStore()
	gate := make(chan error)
	store.block["fizzbuzz"] = gate
	co := NewCoordinator(store, zerolog.Nop())

	errA := saveAsync(co, "fizzbuzz", "a")
	waitStarted(t, store, "a")
	errB := saveAsync(co, "fizzbuzz", "b")
	waitBuffered(t, co, "fizzbuzz", 1)

	gate <- nil
	if err := waitErr(t, errA); err != nil {
		t.Fatalf("save a: %v", err)
	}

	boom := errors.New("disk full")
	waitStarted(t, store, "b")
	gate <- boom
	if err := waitErr(t, errB); !errors.Is(err, boom) {
		t.Fatalf("save b returned %v, want %v", err, boom)
	}

	// The failed flush must not leave the problem stuck.
	errD := saveAsync(co, "fizzbuzz", "d")
	waitStarted(t, store, "d")
	gate <- nil
	if err := waitErr(t, errD); err != nil {
		t.Fatalf("save after failure: %v", err)
	}
	waitIdle(t, co, "fizzbuzz")

	got := store.callsFor("fizzbuzz")
	if len(got) != 3 || got[2] != "d" {
		t.Fatalf("store saw %v, want [a b d]", got)
	}
}

func TestCoordinatorSharedFlushFailureReachesAllWaiters(t *testing.T) {
	store := newFakeStore()
	gate := make(chan error)
	store.block["roman"] = gate
	co := NewCoordinator(store, zerolog.Nop())

	errA := saveAsync(co, "roman", "a")
	waitStarted(t, store, "a")
	errB := saveAsync(co, "roman", "b")
	waitBuffered(t, co, "roman", 1)
	errC := saveAsync(co, "roman", "c")
	waitBuffered(t, co, "roman", 2)

	gate <- nil
	if err := waitErr(t, errA); err != nil {
		t.Fatalf("save a: %v", err)
	}

	boom := errors.New("remote unavailable")
	waitStarted(t, store, "c")
	gate <- boom

	// b rode the flush that carried c, so both see the same failure.
	if err := waitErr(t, errB); !errors.Is(err, boom) {
		t.Fatalf("save b returned %v, want %v", err, boom)
	}
	if err := waitErr(t, errC); !errors.Is(err, boom) {
		t.Fatalf("save c returned %v, want %v", err, boom)
	}
}

func TestCoordinatorProblemsAreIndependent(t *testing.T) {
	store := newFakeStore()
	gate := make(chan error)
	store.block["slow"] = gate
	co := NewCoordinator(store, zerolog.Nop())

	errSlow := saveAsync(co, "slow", "s1")
	waitStarted(t, store, "s1")

	// A stalled flush on one problem must not delay another.
	if err := co.Save(context.Background(), "quick", Draft{Code: "q1"}); err != nil {
		t.Fatalf("save quick: %v", err)
	}
	if !co.HasPendingWork("slow") {
		t.Fatal("slow problem should still be flushing")
	}
	if co.HasPendingWork("quick") {
		t.Fatal("quick problem should be idle")
	}

	gate <- nil
	if err := waitErr(t, errSlow); err != nil {
		t.Fatalf("save slow: %v", err)
	}
	waitIdle(t, co, "slow")
}

func TestCoordinatorReleasesIdleState(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store, zerolog.Nop())

	if co.HasPendingWork("p") {
		t.Fatal("fresh coordinator reports pending work")
	}
	if err := co.Save(context.Background(), "p", Draft{Code: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	waitIdle(t, co, "p")

	co.mu.Lock()
	n := len(co.keys)
	co.mu.Unlock()
	if n != 0 {
		t.Fatalf("coordinator retains %d idle entries, want 0", n)
	}
}

func TestCoordinatorResetAbandonsBufferedSaves(t *testing.T) {
	store := newFakeStore()
	gate := make(chan error)
	store.block["p"] = gate
	co := NewCoordinator(store, zerolog.Nop())

	errA := saveAsync(co, "p", "a")
	waitStarted(t, store, "a")
	errB := saveAsync(co, "p", "b")
	waitBuffered(t, co, "p", 1)

	co.Reset()

	if err := waitErr(t, errB); !errors.Is(err, ErrSaveAbandoned) {
		t.Fatalf("buffered save returned %v, want ErrSaveAbandoned", err)
	}
	if co.HasPendingWork("p") {
		t.Fatal("reset coordinator reports pending work")
	}

	// The in-flight flush still settles for its caller but leaves the
	// fresh state untouched.
	gate <- nil
	if err := waitErr(t, errA); err != nil {
		t.Fatalf("in-flight save: %v", err)
	}
	if co.HasPendingWork("p") {
		t.Fatal("late flush resurrected state after reset")
	}

	errC := saveAsync(co, "p", "c")
	waitStarted(t, store, "c")
	gate <- nil
	if err := waitErr(t, errC); err != nil {
		t.Fatalf("save after reset: %v", err)
	}

	got := store.callsFor("p")
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("store saw %v, want [a c]", got)
	}
}

func TestCoordinatorCancelledWaitStillFlushes(t *testing.T) {
	store := newFakeStore()
	gate := make(chan error)
	store.block["p"] = gate
	co := NewCoordinator(store, zerolog.Nop())

	errA := saveAsync(co, "p", "a")
	waitStarted(t, store, "a")

	ctx, cancel := context.WithCancel(context.Background())
	errB := make(chan error, 1)
	go func() {
		errB <- co.Save(ctx, "p", Draft{Code: "b"})
	}()
	waitBuffered(t, co, "p", 1)
	cancel()

	if err := waitErr(t, errB); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled save returned %v, want context.Canceled", err)
	}

	// Giving up on the wait does not withdraw the draft.
	gate <- nil
	if err := waitErr(t, errA); err != nil {
		t.Fatalf("save a: %v", err)
	}
	waitStarted(t, store, "b")
	gate <- nil
	waitIdle(t, co, "p")

	got := store.callsFor("p")
	if len(got) != 2 || got[1] != "b" {
		t.Fatalf("store saw %v, want [a b]", got)
	}
}

func TestCoordinatorRejectsEmptyProblemID(t *testing.T) {
	co := NewCoordinator(newFakeStore(), zerolog.Nop())
	if err := co.Save(context.Background(), "", Draft{Code: "x"}); !errors.Is(err, ErrEmptyProblemID) {
		t.Fatalf("Save returned %v, want ErrEmptyProblemID", err)
	}
	if _, err := co.Load(context.Background(), ""); !errors.Is(err, ErrEmptyProblemID) {
		t.Fatalf("Load returned %v, want ErrEmptyProblemID", err)
	}
}

func TestCoordinatorLoad(t *testing.T) {
	store := newFakeStore()
	store.drafts["p"] = Draft{Code: "saved", Language: "c"}
	co := NewCoordinator(store, zerolog.Nop())

	d, err := co.Load(context.Background(), "p")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d == nil || d.Code != "saved" {
		t.Fatalf("Load returned %+v, want saved draft", d)
	}

	d, err = co.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Load missing: %v", err)
	}
	if d != nil {
		t.Fatalf("Load missing returned %+v, want nil", d)
	}
}

func TestCoordinatorSerializesSavesUnderLoad(t *testing.T) {
	store := newFakeStore()
	store.delay = 200 * time.Microsecond
	co := NewCoordinator(store, zerolog.Nop())

	problems := []string{"p0", "p1", "p2", "p3"}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 30; i++ {
				p := problems[(g+i)%len(problems)]
				code := fmt.Sprintf("g%d-i%d", g, i)
				if err := co.Save(context.Background(), p, Draft{Code: code}); err != nil {
					t.Errorf("save %s %s: %v", p, code, err)
				}
			}
		}(g)
	}
	wg.Wait()

	for _, p := range problems {
		// One more save while idle must be the final store call.
		final := "final-" + p
		if err := co.Save(context.Background(), p, Draft{Code: final}); err != nil {
			t.Fatalf("final save %s: %v", p, err)
		}
		waitIdle(t, co, p)
		calls := store.callsFor(p)
		if len(calls) == 0 || calls[len(calls)-1] != final {
			t.Fatalf("problem %s: last store call %v, want %s", p, calls, final)
		}
	}
	if store.overlap {
		t.Fatal("store saw overlapping saves for one problem")
	}

	co.mu.Lock()
	n := len(co.keys)
	co.mu.Unlock()
	if n != 0 {
		t.Fatalf("coordinator retains %d entries after drain, want 0", n)
	}
}
