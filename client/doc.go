// Package client is a minimalist Redis client speaking the classic
// inline protocol over a single TCP connection.
//
// Every operation is bounded by the connection timeout, covering the
// send and the complete decode of the reply. The reply buffer is owned
// by the connection and reused across operations, so byte slices
// returned by Get and friends stay valid only until the next
// operation.
//
//	conn, err := client.Dial(ctx, client.Options{
//		Host:    "localhost",
//		Port:    6379,
//		Timeout: 2 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	if err := conn.Set("fruit", []byte("banana")); err != nil {
//		return err
//	}
//
//	value, err := conn.Get("fruit")
//
// Failures carry one of the sentinel kinds of the protocol package,
// so callers can branch with errors.Is on protocol.ErrTimeout,
// protocol.ErrProtocol and the rest. A reply of the error kind, such
// as -ERR no such key, surfaces as a protocol.ServerError holding the
// server's message verbatim.
package client
