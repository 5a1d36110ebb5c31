package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/charlesgretton/credis/protocol"
)

var _ = Describe("transport / error classification", func() {
	Describe("classifyDialError()", func() {
		It("maps resolver failures to ErrResolve", func() {
			cause := &net.DNSError{Err: "no such host", Name: "nowhere", IsNotFound: true}

			err := classifyDialError("nowhere:6379", cause)
			Expect(errors.Is(err, protocol.ErrResolve)).To(BeTrue())
		})

		It("maps elapsed deadlines to ErrTimeout", func() {
			err := classifyDialError("10.0.0.1:6379", context.DeadlineExceeded)
			Expect(errors.Is(err, protocol.ErrTimeout)).To(BeTrue())

			cause := &net.OpError{Op: "dial", Err: os.ErrDeadlineExceeded}
			err = classifyDialError("10.0.0.1:6379", cause)
			Expect(errors.Is(err, protocol.ErrTimeout)).To(BeTrue())
		})

		It("maps everything else to ErrConnect", func() {
			err := classifyDialError("127.0.0.1:6379", errors.New("connection refused"))
			Expect(errors.Is(err, protocol.ErrConnect)).To(BeTrue())
		})
	})

	Describe("classifyIOError()", func() {
		It("maps elapsed deadlines to ErrTimeout", func() {
			err := classifyIOError(os.ErrDeadlineExceeded, protocol.ErrRecv)
			Expect(errors.Is(err, protocol.ErrTimeout)).To(BeTrue())
		})

		It("keeps a peer close in the receive kind", func() {
			err := classifyIOError(io.EOF, protocol.ErrRecv)
			Expect(errors.Is(err, protocol.ErrRecv)).To(BeTrue())
		})

		It("keeps other failures in the given kind", func() {
			err := classifyIOError(errors.New("connection reset by peer"), protocol.ErrSend)
			Expect(errors.Is(err, protocol.ErrSend)).To(BeTrue())
		})
	})
})
