package provider

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testProvider implements the Provider interface for testing.
type testProvider struct {
	name      string
	available bool
}

func (p *testProvider) Name() string                        { return p.name }
func (p *testProvider) IsAvailable(ctx context.Context) bool { return p.available }

func TestRegistryGetOrInit_BuildsOnce(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	var calls atomic.Int32
	reg.RegisterFactory("test", func() (*testProvider, error) {
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return &testProvider{name: "test", available: true}, nil
	})

	var wg sync.WaitGroup
	results := make([]*testProvider, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := reg.GetOrInit("test")
			if err != nil {
				t.Errorf("GetOrInit: %v", err)
				return
			}
			results[i] = p
		}(i)
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("factory calls = %d, want 1", got)
	}
	for i, p := range results {
		if p != results[0] {
			t.Fatalf("result %d is a different instance", i)
		}
	}
}

func TestRegistryGetOrInit_FailureNotCached(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	var calls atomic.Int32
	boom := errors.New("no api key")
	reg.RegisterFactory("bad", func() (*testProvider, error) {
		calls.Add(1)
		return nil, boom
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.GetOrInit("bad"); !errors.Is(err, boom) {
				t.Errorf("err = %v, want %v", err, boom)
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 10 {
		t.Errorf("factory calls = %d, want 10", got)
	}
	if _, ok := reg.Get("bad"); ok {
		t.Error("failed construction left an instance behind")
	}
	if got := reg.ListInitialized(); len(got) != 0 {
		t.Errorf("ListInitialized() = %v, want empty", got)
	}
}

func TestRegistryGetOrInit_Unregistered(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	_, err := reg.GetOrInit("missing")
	var nr *ErrNotRegistered
	if !errors.As(err, &nr) {
		t.Fatalf("err = %v, want ErrNotRegistered", err)
	}
	if nr.Name != "missing" {
		t.Errorf("Name = %q, want %q", nr.Name, "missing")
	}
}

func TestRegistryGetOrInit_OtherNamesNotBlocked(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	release := make(chan struct{})
	started := make(chan struct{})
	reg.RegisterFactory("slow", func() (*testProvider, error) {
		close(started)
		<-release
		return &testProvider{name: "slow"}, nil
	})
	reg.RegisterFactory("fast", func() (*testProvider, error) {
		return &testProvider{name: "fast"}, nil
	})

	go func() { _, _ = reg.GetOrInit("slow") }()
	<-started

	done := make(chan struct{})
	go func() {
		if _, err := reg.GetOrInit("fast"); err != nil {
			t.Errorf("GetOrInit(fast): %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fast provider blocked behind slow construction")
	}
	close(release)
}

func TestRegistryListAndListInitialized(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	for _, n := range []string{"beta", "alpha", "gamma"} {
		name := n
		reg.RegisterFactory(name, func() (*testProvider, error) {
			return &testProvider{name: name}, nil
		})
	}

	names := reg.List()
	if len(names) != 3 || names[0] != "alpha" || names[1] != "beta" || names[2] != "gamma" {
		t.Errorf("List() = %v, want [alpha beta gamma]", names)
	}

	_, _ = reg.GetOrInit("gamma")
	_, _ = reg.GetOrInit("alpha")
	got := reg.ListInitialized()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "gamma" {
		t.Errorf("ListInitialized() = %v, want [alpha gamma]", got)
	}
}

func TestSliceIteratorCollect(t *testing.T) {
	got, err := Collect[string](context.Background(), FromSlice("a", "b", "c"))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("Collect() = %v, want [a b c]", got)
	}
}

func TestSliceIterator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := FromSlice(1).Next(ctx)
	if ok || !errors.Is(err, context.Canceled) {
		t.Errorf("Next() = (%v, %v), want (false, context.Canceled)", ok, err)
	}
}
