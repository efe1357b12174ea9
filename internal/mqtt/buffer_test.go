package mqtt

import (
	"errors"
	"fmt"
	"testing"
)

var errTestPublish = errors.New("injected publish failure")

func msgN(n int) bufferedMsg {
	return bufferedMsg{topic: Topic, payload: []byte(fmt.Sprintf("m%d", n)), qos: 0}
}

func TestRingBufferFIFO(t *testing.T) {
	r := newRingBuffer(4)

	if got := r.drainAll(); got != nil {
		t.Errorf("drain of empty buffer = %v, want nil", got)
	}

	for i := 0; i < 3; i++ {
		r.push(msgN(i))
	}
	if r.len() != 3 {
		t.Fatalf("len = %d, want 3", r.len())
	}

	got := r.drainAll()
	if len(got) != 3 {
		t.Fatalf("drained %d messages, want 3", len(got))
	}
	for i, m := range got {
		if string(m.payload) != fmt.Sprintf("m%d", i) {
			t.Errorf("message %d = %q, out of order", i, m.payload)
		}
	}
	if r.len() != 0 {
		t.Error("drain did not empty the buffer")
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 0; i < 5; i++ {
		r.push(msgN(i))
	}
	if r.len() != 3 {
		t.Fatalf("len = %d, want capacity 3", r.len())
	}

	got := r.drainAll()
	want := []string{"m2", "m3", "m4"}
	for i, w := range want {
		if string(got[i].payload) != w {
			t.Errorf("message %d = %q, want %q", i, got[i].payload, w)
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	r := newRingBuffer(2)
	r.push(msgN(0))
	r.push(msgN(1))
	r.push(msgN(2)) // overflow
	r.drainAll()

	r.push(msgN(10))
	got := r.drainAll()
	if len(got) != 1 || string(got[0].payload) != "m10" {
		t.Errorf("after drain, got %v", got)
	}
}

func TestRingBufferPreservesQoSAndRetain(t *testing.T) {
	r := newRingBuffer(2)
	r.push(bufferedMsg{topic: TopicSystem, payload: []byte("x"), qos: 1, retained: true})

	got := r.drainAll()
	if len(got) != 1 {
		t.Fatal("message lost")
	}
	if got[0].topic != TopicSystem || got[0].qos != 1 || !got[0].retained {
		t.Errorf("delivery attributes lost: %+v", got[0])
	}
}
