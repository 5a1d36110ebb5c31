package protocol

// This package implements the client side of the classic Redis wire
// protocol: rendering commands in the inline form and decoding the five
// reply shapes a server can send back over the same connection.
//
// This layer aims to be
//
// - allocation-steady: one arena buffer is reused for every exchange
// - strict about reply grammar, lenient about integer text
// - bounded: wire-declared sizes are checked before memory is committed
//
// === Commands
//
// A command is a single space-separated line terminated by `\r\n`:
//
//   ```
//     PING\r\n
//     SLAVEOF host 6380\r\n
//   ```
//
// One binary-safe payload may follow the line. Its byte length is the
// final argument and the payload arrives as a second terminated line:
//
//   ```
//     SET fruit 6\r\n
//     banana\r\n
//   ```
//
// === Replies
//
// Every reply starts with a one-byte prefix that selects its shape,
// followed by a `\r\n` terminated line.
//
// - `-` error. The rest of the line is the server's message.
// - `+` inline status, e.g. `+OK\r\n`
// - `:` integer, e.g. `:42\r\n`
// - `$` bulk. The line declares a byte length; the payload follows as a
//   second terminated line. `$-1\r\n` announces a null bulk, meaning the
//   key did not exist.
// - `*` multibulk. The line declares an element count; each element is a
//   complete bulk. `*-1\r\n` announces an empty multibulk. `$-1\r\n`
//   elements mark absent values inside the list.
//
// An error reply is acceptable wherever any shape is expected, since the
// server may reject any command. Any other shape mismatch, malformed
// header, or truncated payload is a protocol failure.
//
// The integer text in headers and `:` replies is parsed with atoi
// semantics: an optional sign, then digits up to the first non-digit.
// Junk parses as zero.
//
// === Views
//
// Decoded payloads are spans of the decoder's arena buffer, not copies.
// A view obtained from a Reply stays valid until the next decode
// begins; from then on its accessors return nil instead of aliasing
// newer bytes. Callers that need a payload beyond the next exchange
// must copy it out.
