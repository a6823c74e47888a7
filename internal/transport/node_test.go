package transport

import (
	"sync"
	"testing"
)

func TestSubscribePublish(t *testing.T) {
	n := NewNode()

	var got []float64
	err := n.Subscribe("gimbal/zoomcam/zoom-command", func(v float64) {
		got = append(got, v)
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	delivered := n.Publish("gimbal/zoomcam/zoom-command", 2.5)
	if delivered != 1 {
		t.Errorf("expected 1 delivery, got %d", delivered)
	}
	if len(got) != 1 || got[0] != 2.5 {
		t.Errorf("expected [2.5], got %v", got)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	n := NewNode()
	if delivered := n.Publish("nobody/home", 1.0); delivered != 0 {
		t.Errorf("expected 0 deliveries, got %d", delivered)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	n := NewNode()

	count := 0
	for i := 0; i < 3; i++ {
		if err := n.Subscribe("shared", func(float64) { count++ }); err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
	}

	if delivered := n.Publish("shared", 1.0); delivered != 3 {
		t.Errorf("expected 3 deliveries, got %d", delivered)
	}
	if count != 3 {
		t.Errorf("expected 3 handler calls, got %d", count)
	}
}

func TestSubscribeRejectsInvalidTopic(t *testing.T) {
	n := NewNode()
	if err := n.Subscribe("has space", func(float64) {}); err == nil {
		t.Error("expected error for invalid topic")
	}
	if err := n.Subscribe("ok", nil); err == nil {
		t.Error("expected error for nil handler")
	}
}

func TestConcurrentPublish(t *testing.T) {
	n := NewNode()

	var mu sync.Mutex
	seen := 0
	if err := n.Subscribe("busy", func(float64) {
		mu.Lock()
		seen++
		mu.Unlock()
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n.Publish("busy", float64(j))
			}
		}()
	}
	wg.Wait()

	if seen != 800 {
		t.Errorf("expected 800 deliveries, got %d", seen)
	}
}
