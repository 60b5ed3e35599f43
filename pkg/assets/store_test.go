package assets

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
)

func TestFSStoreFetch(t *testing.T) {
	fsys := fstest.MapFS{
		"css/room.css": {Data: []byte("body{}")},
	}
	s := NewFSStore(fsys)

	data, err := s.Fetch(context.Background(), "/css/room.css")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != "body{}" {
		t.Errorf("data = %q, want %q", data, "body{}")
	}

	if _, err := s.Fetch(context.Background(), "css/missing.css"); err == nil {
		t.Error("expected error for missing asset")
	}
}

func TestResolveVariant(t *testing.T) {
	tests := []struct {
		path   string
		mobile bool
		want   string
	}{
		{"css/room.css", true, "css/room.mobi.css"},
		{"css/room.css", false, "css/room.pc.css"},
		{"tmpl/rooms.html", true, "tmpl/rooms.mobi.html"},
		{"noext", false, "noext.pc"},
	}
	for _, tt := range tests {
		if got := ResolveVariant(tt.path, tt.mobile); got != tt.want {
			t.Errorf("ResolveVariant(%q, %v) = %q, want %q", tt.path, tt.mobile, got, tt.want)
		}
	}
}

// flakyStore fails a fixed number of times before succeeding.
type flakyStore struct {
	failures int
	calls    int
}

func (f *flakyStore) Fetch(ctx context.Context, path string) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("transient")
	}
	return []byte("ok"), nil
}

func TestFetchRetry(t *testing.T) {
	s := &flakyStore{failures: 2}
	data, err := FetchRetry(context.Background(), s, "x", 3)
	if err != nil {
		t.Fatalf("FetchRetry error: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("data = %q, want %q", data, "ok")
	}
	if s.calls != 3 {
		t.Errorf("calls = %d, want 3", s.calls)
	}
}

func TestFetchRetryExhausted(t *testing.T) {
	s := &flakyStore{failures: 10}
	if _, err := FetchRetry(context.Background(), s, "x", 3); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if s.calls != 3 {
		t.Errorf("calls = %d, want 3", s.calls)
	}
}

func TestFetchRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &flakyStore{failures: 10}
	if _, err := FetchRetry(ctx, s, "x", 3); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if s.calls != 0 {
		t.Errorf("calls = %d, want 0", s.calls)
	}
}
