package progress

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureSink) Emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

type explodingSink struct{}

func (explodingSink) Emit(Event) { panic("sink blew up") }

func TestEmitSwallowsNilSink(t *testing.T) {
	// Must not panic
	Emit(nil, NewEvent(KindStatus, "ignored", nil))
}

func TestEmitSwallowsPanickingSink(t *testing.T) {
	Emit(explodingSink{}, NewEvent(KindProgress, "still fine", nil))
}

func TestMultiSinkDeliversPastFailure(t *testing.T) {
	capture := &captureSink{}
	m := MultiSink{explodingSink{}, capture}

	m.Emit(NewEvent(KindComplete, "done", map[string]any{"items": 3}))

	if len(capture.events) != 1 {
		t.Fatalf("expected 1 event past the failing sink, got %d", len(capture.events))
	}
	if capture.events[0].Kind != KindComplete {
		t.Errorf("wrong kind: %s", capture.events[0].Kind)
	}
}

func TestStreamSinkWritesNDJSON(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamSink(&buf)

	s.Emit(NewEvent(KindStatus, "run started", map[string]any{"total": 2}))
	s.Emit(NewEvent(KindProgress, "item done", map[string]any{"done": true, "percent": 50.0}))

	scanner := bufio.NewScanner(&buf)
	var kinds []string
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("line is not a JSON event: %q: %v", scanner.Text(), err)
		}
		kinds = append(kinds, string(ev.Kind))
	}
	if strings.Join(kinds, ",") != "status,progress" {
		t.Errorf("unexpected event kinds: %v", kinds)
	}
}

func TestStreamSinkConcurrentWritesStayLineFramed(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamSink(&syncWriter{w: &buf})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Emit(NewEvent(KindProgress, "tick", map[string]any{"done": true}))
		}()
	}
	wg.Wait()

	scanner := bufio.NewScanner(&buf)
	count := 0
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("interleaved write broke framing: %q", scanner.Text())
		}
		count++
	}
	if count != 20 {
		t.Errorf("expected 20 lines, got %d", count)
	}
}

// syncWriter guards the test buffer; StreamSink already serializes its own
// writes but bytes.Buffer is not safe for any concurrent access.
type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
