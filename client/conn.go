package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/charlesgretton/credis/protocol"
	"github.com/charlesgretton/credis/transport"
)

var errClosed = errors.New("Connection is already closed")

// Conn is a connection to a Redis server speaking the classic inline
// protocol. The protocol is strictly request/reply over one TCP
// stream, so a Conn is not safe for concurrent use without external
// locking.
type Conn struct {
	t   *transport.Conn
	buf *protocol.Buffer
	dec *protocol.Decoder

	timeout time.Duration
	version Version

	log *zap.Logger
}

// Dial connects to the configured server and probes it with INFO to
// learn the server version. A server that answers the probe with an
// unparseable version is disconnected and reported as a connect
// failure. A server that refuses the probe outright, for example
// because it wants AUTH first, is accepted with a zero version.
func Dial(ctx context.Context, opts Options) (*Conn, error) {
	opts = opts.withDefaults()

	t, err := transport.Dial(ctx, opts.Host, opts.Port, opts.Timeout)
	if err != nil {
		return nil, err
	}

	buf := protocol.NewBuffer()

	c := &Conn{
		t:       t,
		buf:     buf,
		dec:     protocol.NewDecoder(buf),
		timeout: opts.Timeout,
		log:     opts.Log,
	}

	r, err := c.Do(protocol.NewCommand("INFO"), protocol.KindBulk)
	if err == nil {
		version, ok := parseVersionValue(parseInfo(r.Value()).Version)
		if !ok {
			c.Close()
			return nil, fmt.Errorf("Cannot parse a server version out of the status report: %w", protocol.ErrConnect)
		}

		c.version = version
	}

	c.log.Debug("Connected",
		zap.String("addr", c.Addr()),
		zap.String("version", c.version.String()))

	return c, nil
}

// Close terminates the connection and releases the reply buffer. Close
// is idempotent.
func (c *Conn) Close() error {
	if c.t == nil {
		return nil
	}

	err := c.t.Close()
	c.t = nil
	c.buf = nil
	c.dec = nil

	c.log.Debug("Closed")

	return err
}

// SetTimeout replaces the deadline applied to every subsequent
// operation. A non-positive timeout makes every operation fail
// immediately.
func (c *Conn) SetTimeout(d time.Duration) {
	c.timeout = d
}

// ServerVersion returns the version learned during the connect probe.
// It is zero when the server refused the probe.
func (c *Conn) ServerVersion() Version {
	return c.version
}

// Addr returns the remote address of the connection, or an empty
// string once closed.
func (c *Conn) Addr() string {
	if c.t == nil {
		return ""
	}

	return c.t.RemoteAddr().String()
}

// Do renders cmd, sends it, and decodes one reply of the wanted kind,
// all within a single deadline computed from the connection timeout.
// Views into the previous reply go stale as soon as Do begins.
func (c *Conn) Do(cmd *protocol.Command, want protocol.Kind) (protocol.Reply, error) {
	if c.t == nil {
		return protocol.Reply{}, errClosed
	}

	deadline := time.Now().Add(c.timeout)

	c.buf.Reset()

	if err := cmd.AppendTo(c.buf); err != nil {
		return protocol.Reply{}, err
	}

	sent, err := c.t.SendAll(c.buf.Bytes(), deadline)
	if err != nil {
		return protocol.Reply{}, err
	}

	if sent < c.buf.Len() {
		return protocol.Reply{}, fmt.Errorf("Sent %d of %d bytes before the deadline: %w",
			sent, c.buf.Len(), protocol.ErrTimeout)
	}

	// The arena switches from holding the command to holding its reply.
	c.buf.Reset()

	return c.dec.Decode(c.t, want, deadline)
}

// receive decodes one reply of the wanted kind without sending
// anything first. Feed streams such as MONITOR are consumed this way.
func (c *Conn) receive(want protocol.Kind) (protocol.Reply, error) {
	if c.t == nil {
		return protocol.Reply{}, errClosed
	}

	return c.dec.Decode(c.t, want, time.Now().Add(c.timeout))
}
