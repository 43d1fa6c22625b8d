package metrics

import (
	"sync"
	"testing"
)

func TestProgressLatest(t *testing.T) {
	p := NewProgress()

	u, v := p.Latest()
	if v != 0 || u != (Update{}) {
		t.Fatalf("empty progress = %+v, %d", u, v)
	}

	p.Publish(Update{Epoch: 1, RecentError: 0.5})
	p.Publish(Update{Epoch: 2, RecentError: 0.25})

	u, v = p.Latest()
	if v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if u.Epoch != 2 || u.RecentError != 0.25 {
		t.Errorf("latest = %+v, want epoch 2", u)
	}
}

func TestProgressStop(t *testing.T) {
	p := NewProgress()
	if p.StopRequested() {
		t.Fatal("stop requested on new progress")
	}
	p.RequestStop()
	if !p.StopRequested() {
		t.Error("StopRequested = false after RequestStop")
	}
}

func TestProgressConcurrent(t *testing.T) {
	p := NewProgress()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 1000; i++ {
			p.Publish(Update{Epoch: i, Samples: int64(i * 4)})
		}
	}()

	for i := 0; i < 1000; i++ {
		u, _ := p.Latest()
		if u.Samples != int64(u.Epoch*4) {
			t.Fatalf("torn update %+v", u)
		}
	}
	wg.Wait()

	if u, v := p.Latest(); u.Epoch != 1000 || v != 1000 {
		t.Errorf("final = %+v, %d", u, v)
	}
}
