package resilience

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"transient", NewTransientError(errors.New("503"), 503), true},
		{"wrapped transient", fmt.Errorf("download: %w", NewTransientError(errors.New("429"), 429)), true},
		{"net timeout", timeoutErr{}, true},
		{"conn refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"reset message", errors.New("read tcp: connection reset by peer"), true},
		{"io timeout message", errors.New("dial tcp 10.0.0.1:21: i/o timeout"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	base := errors.New("base")
	te := NewTransientError(base, 500)
	if !errors.Is(te, base) {
		t.Error("expected errors.Is to find base")
	}
	if te.Error() != "base" {
		t.Errorf("unexpected message %q", te.Error())
	}
	if te.StatusCode != 500 {
		t.Errorf("unexpected status %d", te.StatusCode)
	}
}

func TestIsTransientStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		if !IsTransientStatus(code) {
			t.Errorf("expected %d to be transient", code)
		}
	}
	for _, code := range []int{200, 400, 401, 403, 404, 501} {
		if IsTransientStatus(code) {
			t.Errorf("expected %d to be permanent", code)
		}
	}
}

func TestAlways(t *testing.T) {
	if Always(nil) {
		t.Error("nil is not retryable")
	}
	if !Always(errors.New("x")) {
		t.Error("expected any error to be retryable")
	}
}
