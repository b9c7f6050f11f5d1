package session

import (
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

type fakeNetError struct {
	timeout bool
}

func (e *fakeNetError) Error() string   { return "fake net error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

var _ net.Error = (*fakeNetError)(nil)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"network timeout", &fakeNetError{timeout: true}, ErrorTimeout},
		{"wrapped timeout", fmt.Errorf("dial: %w", &fakeNetError{timeout: true}), ErrorTimeout},
		{"ssh auth failure", errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none password]"), ErrorAuthFailure},
		{"permission denied", errors.New("permission denied (password)"), ErrorAuthFailure},
		{"connection refused", errors.New("dial tcp 10.0.0.1:22: connect: connection refused"), ErrorOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("sw1", tt.err)
			if got.Kind != tt.want {
				t.Errorf("classify() kind = %v, want %v", got.Kind, tt.want)
			}
			if got.Host != "sw1" {
				t.Errorf("classify() host = %q, want sw1", got.Host)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classify() lost the wrapped error")
			}
		})
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrorTimeout, "timeout"},
		{ErrorAuthFailure, "auth_failure"},
		{ErrorOther, "other"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDialerDefaults(t *testing.T) {
	d := NewDialer(Credentials{Username: "admin", Password: "secret"}, DialerConfig{})
	if d.connectTimeout != 20*time.Second {
		t.Errorf("connect timeout default = %v", d.connectTimeout)
	}
	if d.commandTimeout != 60*time.Second {
		t.Errorf("command timeout default = %v", d.commandTimeout)
	}
}
