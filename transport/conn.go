package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charlesgretton/credis/protocol"
)

// Conn is a single TCP connection to a server. It exposes the two
// partial I/O primitives the reply decoder is built on: one bounded
// receive and one all-or-timeout send. A Conn is not safe for
// concurrent use.
type Conn struct {
	tcp    *net.TCPConn
	closed bool
}

// Dial opens a TCP connection to host:port, waiting at most timeout for
// it to become established. Keepalive probing is enabled and Nagle
// buffering is disabled, so small commands depart immediately.
//
// Failures are classified: an unresolvable name reports ErrResolve, an
// elapsed timeout reports ErrTimeout, everything else ErrConnect.
func Dial(ctx context.Context, host string, port int, timeout time.Duration) (*Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	d := net.Dialer{Timeout: timeout}

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classifyDialError(addr, err)
	}

	tcp := conn.(*net.TCPConn)

	if err := tcp.SetKeepAlive(true); err != nil {
		tcp.Close()
		return nil, fmt.Errorf("Enabling keepalive on %s: %v: %w", addr, err, protocol.ErrConnect)
	}

	if err := tcp.SetNoDelay(true); err != nil {
		tcp.Close()
		return nil, fmt.Errorf("Disabling Nagle buffering on %s: %v: %w", addr, err, protocol.ErrConnect)
	}

	return &Conn{tcp: tcp}, nil
}

// Recv waits until the deadline for bytes to arrive and fills p with
// whatever a single read returns. A closed peer and any transport
// failure report ErrRecv; an elapsed deadline reports ErrTimeout.
func (c *Conn) Recv(p []byte, deadline time.Time) (int, error) {
	if err := c.tcp.SetReadDeadline(deadline); err != nil {
		return 0, fmt.Errorf("Arming the read deadline: %v: %w", err, protocol.ErrRecv)
	}

	n, err := c.tcp.Read(p)
	if n > 0 {
		// Deliver what arrived. A lingering error resurfaces on the
		// next call.
		return n, nil
	}

	if err == nil {
		return n, nil
	}

	return 0, classifyIOError(err, protocol.ErrRecv)
}

// SendAll writes p, waiting at most until the deadline. The returned
// count is what actually departed: when the deadline elapses first the
// short count comes back with a nil error, and the caller decides how
// to report it. Transport failures report ErrSend.
func (c *Conn) SendAll(p []byte, deadline time.Time) (int, error) {
	sent := 0

	for sent < len(p) {
		if err := c.tcp.SetWriteDeadline(deadline); err != nil {
			return sent, fmt.Errorf("Arming the write deadline: %v: %w", err, protocol.ErrSend)
		}

		n, err := c.tcp.Write(p[sent:])
		sent += n

		if err != nil {
			if isTimeout(err) {
				// The deadline elapsed with sent bytes departed.
				return sent, nil
			}

			return sent, fmt.Errorf("%v: %w", err, protocol.ErrSend)
		}
	}

	return sent, nil
}

// Close terminates the connection. Closing twice is not an error.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true

	if err := c.tcp.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}

// RemoteAddr returns the address of the peer.
func (c *Conn) RemoteAddr() net.Addr {
	return c.tcp.RemoteAddr()
}

func classifyDialError(addr string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("Dialing %s: %v: %w", addr, err, protocol.ErrResolve)
	}

	if isTimeout(err) {
		return fmt.Errorf("Dialing %s: %v: %w", addr, err, protocol.ErrTimeout)
	}

	return fmt.Errorf("Dialing %s: %v: %w", addr, err, protocol.ErrConnect)
}

func classifyIOError(err, kind error) error {
	if isTimeout(err) {
		return fmt.Errorf("%v: %w", err, protocol.ErrTimeout)
	}

	if errors.Is(err, io.EOF) {
		return fmt.Errorf("Peer closed the connection: %w", kind)
	}

	return fmt.Errorf("%v: %w", err, kind)
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ protocol.Receiver = (*Conn)(nil)
