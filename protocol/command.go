package protocol

import (
	"fmt"
	"strconv"
)

// Command renders a client command in the classic inline form: the name
// and its arguments separated by single spaces and terminated by CRLF.
// At most one binary-safe payload may follow; its length is announced as
// the final argument of the line and its bytes are sent as a second
// CRLF-terminated line:
//
//	SET fruit 6\r\nbanana\r\n
//
// Arguments are validated as they are added. A space, CR, or LF inside a
// name or argument would change the shape of the rendered command, so
// such arguments are refused and the error surfaces from AppendTo.
type Command struct {
	line    []byte
	payload []byte

	hasPayload bool
	err        error
}

// NewCommand starts a command with the given name.
func NewCommand(name string) *Command {
	c := &Command{line: make([]byte, 0, 64)}

	if err := checkArg(name); err != nil {
		c.err = err
		return c
	}

	c.line = append(c.line, name...)
	return c
}

// Arg appends a string argument.
func (c *Command) Arg(s string) *Command {
	if c.err != nil {
		return c
	}

	if c.hasPayload {
		c.err = fmt.Errorf("Arguments cannot follow the bulk payload: %w", ErrCommand)
		return c
	}

	if err := checkArg(s); err != nil {
		c.err = err
		return c
	}

	c.line = append(c.line, ' ')
	c.line = append(c.line, s...)
	return c
}

// Int appends an integer argument.
func (c *Command) Int(n int64) *Command {
	if c.err != nil {
		return c
	}

	if c.hasPayload {
		c.err = fmt.Errorf("Arguments cannot follow the bulk payload: %w", ErrCommand)
		return c
	}

	c.line = append(c.line, ' ')
	c.line = strconv.AppendInt(c.line, n, 10)
	return c
}

// Float appends a float argument rendered with six decimals, the form
// servers accept for scores.
func (c *Command) Float(f float64) *Command {
	if c.err != nil {
		return c
	}

	if c.hasPayload {
		c.err = fmt.Errorf("Arguments cannot follow the bulk payload: %w", ErrCommand)
		return c
	}

	c.line = append(c.line, ' ')
	c.line = strconv.AppendFloat(c.line, f, 'f', 6, 64)
	return c
}

// Bulk attaches the single binary-safe payload. Its byte length becomes
// the final argument of the command line and the payload follows on its
// own line, so the bytes may contain spaces, CR, and LF.
func (c *Command) Bulk(p []byte) *Command {
	if c.err != nil {
		return c
	}

	if c.hasPayload {
		c.err = fmt.Errorf("Command already carries a bulk payload: %w", ErrCommand)
		return c
	}

	c.line = append(c.line, ' ')
	c.line = strconv.AppendInt(c.line, int64(len(p)), 10)
	c.payload = append(c.payload[:0], p...)
	c.hasPayload = true
	return c
}

// Err reports the first validation error recorded while building.
func (c *Command) Err() error {
	return c.err
}

// AppendTo renders the command into buf, including the CRLF terminators
// and the payload line when one was attached. A validation error
// recorded while building is returned instead of rendering.
func (c *Command) AppendTo(buf *Buffer) error {
	if c.err != nil {
		return c.err
	}

	if err := buf.Append(c.line); err != nil {
		return err
	}

	if err := buf.Append(crlf); err != nil {
		return err
	}

	if !c.hasPayload {
		return nil
	}

	if err := buf.Append(c.payload); err != nil {
		return err
	}

	return buf.Append(crlf)
}

func checkArg(s string) error {
	if s == "" {
		return fmt.Errorf("Argument is empty: %w", ErrCommand)
	}

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\r', '\n':
			return fmt.Errorf("Argument '%s' contains a protocol delimiter: %w", s, ErrCommand)
		}
	}

	return nil
}
