package protocol

import "errors"

var (
	ErrNoMem    = errors.New("Buffer growth was refused, the allocation ceiling is reached")
	ErrResolve  = errors.New("Host name could not be resolved")
	ErrConnect  = errors.New("Connection could not be established")
	ErrSend     = errors.New("Transport failed while sending")
	ErrRecv     = errors.New("Transport failed or the peer closed the connection while receiving")
	ErrTimeout  = errors.New("Operation deadline elapsed")
	ErrProtocol = errors.New("Reply does not conform to the protocol grammar")
	ErrCommand  = errors.New("Command is malformed, it cannot be rendered in the inline form")
)

// ServerError is an error reply sent by the server. The text carries the
// server's message verbatim, e.g. "ERR wrong number of arguments".
type ServerError string

func (e ServerError) Error() string {
	return string(e)
}

// Is reports an error reply as a protocol-level failure, so errors.Is
// matches it against ErrProtocol.
func (e ServerError) Is(target error) bool {
	return target == ErrProtocol
}
