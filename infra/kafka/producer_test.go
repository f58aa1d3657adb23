package kafka

import "testing"

func TestNewProducer(t *testing.T) {
	p, err := NewProducer([]string{"localhost:9092"}, "helix.ticks")
	if err != nil {
		t.Fatalf("new producer: %v", err)
	}
	if p == nil || p.writer == nil {
		t.Fatal("producer not constructed")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewProducer_RejectsBadConfig(t *testing.T) {
	if _, err := NewProducer(nil, "helix.ticks"); err == nil {
		t.Fatal("empty broker list accepted")
	}
	if _, err := NewProducer([]string{"localhost:9092"}, ""); err == nil {
		t.Fatal("empty topic accepted")
	}
}
