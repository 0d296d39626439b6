package dedupe

import (
	"testing"
	"time"
)

func TestSeen(t *testing.T) {
	s := NewSet(time.Minute)
	defer s.Close()

	if s.Seen("https://maps.example.com/place/1") {
		t.Error("First sighting should not be seen")
	}
	if !s.Seen("https://maps.example.com/place/1") {
		t.Error("Second sighting should be seen")
	}
	if s.Seen("https://maps.example.com/place/2") {
		t.Error("Different key should not be seen")
	}
}

func TestSeenExpiry(t *testing.T) {
	s := NewSet(10 * time.Millisecond)
	defer s.Close()

	s.Seen("k")
	time.Sleep(20 * time.Millisecond)

	if s.Seen("k") {
		t.Error("Expired entry should not count as seen")
	}
}

func TestSeenConcurrent(t *testing.T) {
	s := NewSet(time.Minute)
	defer s.Close()

	wins := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			wins <- !s.Seen("contested")
		}()
	}

	winners := 0
	for i := 0; i < 10; i++ {
		if <-wins {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("Exactly one goroutine should win a contested key, got %d", winners)
	}
}
