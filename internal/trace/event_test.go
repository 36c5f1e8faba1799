package trace

import (
	"fmt"
	"testing"
	"time"
)

func TestNewEventLog_DefaultCapacity(t *testing.T) {
	l := NewEventLog(0)
	if len(l.events) != 100 {
		t.Errorf("NewEventLog(0): expected capacity 100, got %d", len(l.events))
	}
}

func TestEventLog_AppendStampsTime(t *testing.T) {
	l := NewEventLog(4)
	l.Append(Event{PanelID: "map-1", Type: EventSurfaceReady})
	evs := l.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].Time.IsZero() {
		t.Error("expected Append to set a timestamp")
	}
}

func TestEventLog_RingEvictsOldest(t *testing.T) {
	l := NewEventLog(3)
	for i := 1; i <= 5; i++ {
		l.Append(Event{PanelID: fmt.Sprintf("map-%d", i), Time: time.Unix(int64(i), 0)})
	}
	if l.Len() != 3 {
		t.Fatalf("expected Len=3, got %d", l.Len())
	}
	evs := l.Events()
	want := []string{"map-3", "map-4", "map-5"}
	for i, w := range want {
		if evs[i].PanelID != w {
			t.Errorf("event %d: expected %s, got %s", i, w, evs[i].PanelID)
		}
	}
}

func TestEventLog_OnChange(t *testing.T) {
	l := NewEventLog(2)
	calls := 0
	l.SetOnChange(func() { calls++ })
	l.Append(Event{})
	l.Append(Event{})
	if calls != 2 {
		t.Errorf("expected 2 onChange calls, got %d", calls)
	}
}
