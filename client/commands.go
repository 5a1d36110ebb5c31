package client

import (
	"github.com/charlesgretton/credis/protocol"
)

// Ping checks the connection with a round trip.
func (c *Conn) Ping() error {
	_, err := c.Do(protocol.NewCommand("PING"), protocol.KindInline)
	return err
}

// Auth authenticates against a password-protected server.
func (c *Conn) Auth(password string) error {
	_, err := c.Do(protocol.NewCommand("AUTH").Arg(password), protocol.KindInline)
	return err
}

// Quit asks the server to close the connection once the reply has been
// delivered. The Conn itself is still released with Close.
func (c *Conn) Quit() error {
	_, err := c.Do(protocol.NewCommand("QUIT"), protocol.KindInline)
	return err
}

// Set stores value under key. The value travels as the binary-safe
// payload, so it may contain spaces and line breaks.
func (c *Conn) Set(key string, value []byte) error {
	_, err := c.Do(protocol.NewCommand("SET").Arg(key).Bulk(value), protocol.KindInline)
	return err
}

// Get returns the value stored under key. A missing key returns nil
// with no error. The returned slice is a view into the connection's
// reply buffer and stays valid only until the next operation; copy it
// to retain it.
func (c *Conn) Get(key string) ([]byte, error) {
	r, err := c.Do(protocol.NewCommand("GET").Arg(key), protocol.KindBulk)
	if err != nil {
		return nil, err
	}

	if r.IsNull() {
		return nil, nil
	}

	return r.Value(), nil
}

// ZAdd adds member to the sorted set under key with the given score.
// added reports whether the member was new; false means the server
// only updated the score of a member it already had.
func (c *Conn) ZAdd(key string, score float64, member []byte) (added bool, err error) {
	r, err := c.Do(protocol.NewCommand("ZADD").Arg(key).Float(score).Bulk(member), protocol.KindInteger)
	if err != nil {
		return false, err
	}

	return r.Int() != 0, nil
}

// SAdd adds member to the set under key. added reports whether the
// member was new; false means it was already present.
func (c *Conn) SAdd(key string, member []byte) (added bool, err error) {
	r, err := c.Do(protocol.NewCommand("SADD").Arg(key).Bulk(member), protocol.KindInteger)
	if err != nil {
		return false, err
	}

	return r.Int() != 0, nil
}

// SlaveOf makes the server a replica of host:port. An empty host or a
// zero port turns replication off instead, promoting the server back
// to a master.
func (c *Conn) SlaveOf(host string, port int) error {
	cmd := protocol.NewCommand("SLAVEOF")

	if host == "" || port == 0 {
		cmd = cmd.Arg("no").Arg("one")
	} else {
		cmd = cmd.Arg(host).Int(int64(port))
	}

	_, err := c.Do(cmd, protocol.KindInline)
	return err
}

// Info requests the server's status report and parses the known
// fields into a ServerInfo. Fields the server did not report stay
// zero.
func (c *Conn) Info() (*ServerInfo, error) {
	r, err := c.Do(protocol.NewCommand("INFO"), protocol.KindBulk)
	if err != nil {
		return nil, err
	}

	return parseInfo(r.Value()), nil
}

// Monitor puts the connection into the server's command feed. After a
// nil return the server streams one line per command it processes;
// consume them with ReadMonitorLine. No other command can be issued
// on the connection afterwards.
func (c *Conn) Monitor() error {
	_, err := c.Do(protocol.NewCommand("MONITOR"), protocol.KindInline)
	return err
}

// ReadMonitorLine blocks for the next line of the command feed
// entered with Monitor. The line is returned as a copy, so it
// survives subsequent reads.
func (c *Conn) ReadMonitorLine() (string, error) {
	r, err := c.receive(protocol.KindInline)
	if err != nil {
		return "", err
	}

	return string(r.Value()), nil
}
