package eventbus

import (
	"testing"
	"time"

	"github.com/evsight/plugpredict/core/metrics"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Publish(metrics.ForecastEvent{Resource: "plug1"})
	select {
	case ev := <-sub:
		if ev.Resource != "plug1" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	b.Publish(metrics.ForecastEvent{Resource: "plug1"})
	if _, ok := <-sub; ok {
		t.Fatalf("subscriber should see closed channel")
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	b.Subscribe() // never drained
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(metrics.ForecastEvent{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on slow subscriber")
	}
}
