package events

import (
	"testing"

	"github.com/thavarshan/fetch-go/internal/core/domain"
)

func TestPublishRunsInPriorityOrder(t *testing.T) {
	d := New(nil)
	var order []string

	d.On(domain.EventRequestSending, 1, func(domain.Event) { order = append(order, "low") })
	d.On(domain.EventRequestSending, 10, func(domain.Event) { order = append(order, "high") })
	d.On(domain.EventRequestSending, 5, func(domain.Event) { order = append(order, "mid") })

	d.Publish(domain.Event{Name: domain.EventRequestSending})

	want := []string{"high", "mid", "low"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestPublishPreservesInsertionOrderAtEqualPriority(t *testing.T) {
	d := New(nil)
	var order []string

	d.On(domain.EventRequestSending, 1, func(domain.Event) { order = append(order, "first") })
	d.On(domain.EventRequestSending, 1, func(domain.Event) { order = append(order, "second") })

	d.Publish(domain.Event{Name: domain.EventRequestSending})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected [first second], got %v", order)
	}
}

func TestOffRemovesAllListeners(t *testing.T) {
	d := New(nil)
	called := false
	d.On(domain.EventErrorOccurred, 0, func(domain.Event) { called = true })
	d.Off(domain.EventErrorOccurred)
	d.Publish(domain.Event{Name: domain.EventErrorOccurred})
	if called {
		t.Error("expected no listener to run after Off")
	}
}

func TestPublishRecoversFromPanickingListener(t *testing.T) {
	d := New(nil)
	ran := false
	d.On(domain.EventRequestSending, 10, func(domain.Event) { panic("boom") })
	d.On(domain.EventRequestSending, 1, func(domain.Event) { ran = true })

	d.Publish(domain.Event{Name: domain.EventRequestSending})

	if !ran {
		t.Error("expected the lower-priority listener to still run after a panic")
	}
}

func TestPublishUnregisteredNameIsNoop(t *testing.T) {
	d := New(nil)
	d.Publish(domain.Event{Name: domain.EventRequestTimeout})
}

type fakeLogger struct {
	errors []string
}

func (f *fakeLogger) Debug(msg string, args ...any) {}
func (f *fakeLogger) Info(msg string, args ...any)  {}
func (f *fakeLogger) Warn(msg string, args ...any)  {}
func (f *fakeLogger) Error(msg string, args ...any) {
	f.errors = append(f.errors, msg)
}

func TestPublishLogsPanickingListener(t *testing.T) {
	log := &fakeLogger{}
	d := New(log)
	d.On(domain.EventRequestSending, 0, func(domain.Event) { panic("boom") })

	d.Publish(domain.Event{Name: domain.EventRequestSending, CorrelationID: "test-id"})

	if len(log.errors) != 1 {
		t.Fatalf("expected one logged error, got %d", len(log.errors))
	}
}
