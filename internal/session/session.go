// Package session implements the remote command execution boundary: SSH
// connections to network devices, blocking command execution with a timeout,
// and a small error taxonomy so callers can tell an unreachable device from
// a credential problem.
package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// ErrorKind classifies why a device could not be reached or commanded.
type ErrorKind int

const (
	ErrorOther ErrorKind = iota
	ErrorTimeout
	ErrorAuthFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorTimeout:
		return "timeout"
	case ErrorAuthFailure:
		return "auth_failure"
	default:
		return "other"
	}
}

// ConnError wraps a transport failure with its classification and the host
// it occurred against.
type ConnError struct {
	Host string
	Kind ErrorKind
	Err  error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Host, e.Kind, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

// Credentials holds the login used for every device in a run.
type Credentials struct {
	Username string
	Password string
}

// Dialer opens SSH sessions to network devices.
type Dialer struct {
	creds          Credentials
	connectTimeout time.Duration
	commandTimeout time.Duration
}

// DialerConfig holds tunables for device connections.
type DialerConfig struct {
	// Timeout for establishing the SSH connection
	ConnectTimeout time.Duration
	// Timeout for a single command execution
	CommandTimeout time.Duration
}

// DefaultDialerConfig returns sensible defaults for network gear, which can
// be slow to produce long table output.
func DefaultDialerConfig() DialerConfig {
	return DialerConfig{
		ConnectTimeout: 20 * time.Second,
		CommandTimeout: 60 * time.Second,
	}
}

// NewDialer creates a dialer with the given credentials.
func NewDialer(creds Credentials, config DialerConfig) *Dialer {
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 20 * time.Second
	}
	if config.CommandTimeout == 0 {
		config.CommandTimeout = 60 * time.Second
	}
	return &Dialer{
		creds:          creds,
		connectTimeout: config.ConnectTimeout,
		commandTimeout: config.CommandTimeout,
	}
}

// Dial connects to a device on the standard SSH port and returns a live
// session. Errors are classified into the ConnError taxonomy.
func (d *Dialer) Dial(ctx context.Context, host string) (*Session, error) {
	config := &ssh.ClientConfig{
		User: d.creds.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(d.creds.Password),
		},
		// Switch fleets rarely have managed host keys; this matches the
		// trust model of the tools this replaces.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         d.connectTimeout,
	}

	addr := net.JoinHostPort(host, "22")

	dialer := &net.Dialer{
		Timeout: d.connectTimeout,
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classify(host, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, classify(host, err)
	}

	return &Session{
		host:    host,
		client:  ssh.NewClient(sshConn, chans, reqs),
		timeout: d.commandTimeout,
	}, nil
}

// classify maps a raw transport error into the ConnError taxonomy.
func classify(host string, err error) *ConnError {
	kind := ErrorOther

	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = ErrorTimeout
	case strings.Contains(err.Error(), "unable to authenticate"),
		strings.Contains(err.Error(), "permission denied"):
		kind = ErrorAuthFailure
	}

	return &ConnError{Host: host, Kind: kind, Err: err}
}

// Session is a live connection to one device. Commands run in separate SSH
// exec channels over the shared connection.
type Session struct {
	host    string
	client  *ssh.Client
	timeout time.Duration
}

// Host returns the device this session is connected to.
func (s *Session) Host() string { return s.host }

// Execute runs one command and returns its stripped output. The call blocks
// until the remote command completes or the command timeout expires.
func (s *Session) Execute(command string) (string, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return "", classify(s.host, fmt.Errorf("create session: %w", err))
	}
	defer sess.Close()

	done := make(chan error, 1)
	var output []byte

	go func() {
		var runErr error
		output, runErr = sess.CombinedOutput(command)
		done <- runErr
	}()

	select {
	case err := <-done:
		if err != nil {
			// A non-zero exit status still carries usable output; some
			// platforms exit non-zero on paged or truncated tables.
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				return strings.TrimSpace(string(output)), nil
			}
			return "", classify(s.host, err)
		}
		return strings.TrimSpace(string(output)), nil
	case <-time.After(s.timeout):
		sess.Signal(ssh.SIGKILL)
		return "", &ConnError{Host: s.host, Kind: ErrorTimeout, Err: errors.New("command timeout")}
	}
}

// Close releases the underlying SSH connection.
func (s *Session) Close() error {
	return s.client.Close()
}
