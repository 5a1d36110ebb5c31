package transport_test

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/charlesgretton/credis/protocol"
	"github.com/charlesgretton/credis/transport"
)

func listen() (net.Listener, string, int) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	ExpectWithOffset(1, err).To(Succeed())

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	ExpectWithOffset(1, err).To(Succeed())

	port, err := strconv.Atoi(portStr)
	ExpectWithOffset(1, err).To(Succeed())

	return ln, host, port
}

var _ = Describe("transport / Conn", func() {
	Describe("Dial()", func() {
		It("connects to a listening server", func() {
			ln, host, port := listen()
			defer ln.Close()

			conn, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(err).To(Succeed())
			Expect(conn.Close()).To(Succeed())
		})

		It("reports ErrConnect when nothing listens", func() {
			ln, host, port := listen()
			ln.Close()

			_, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(errors.Is(err, protocol.ErrConnect)).To(BeTrue())
		})

		It("reports ErrResolve for a name that cannot resolve", func() {
			_, err := transport.Dial(context.Background(), "no-such-host.invalid", 6379, time.Second)
			Expect(errors.Is(err, protocol.ErrResolve)).To(BeTrue())
		})
	})

	Describe("Recv()", func() {
		It("returns the bytes the peer sent", func() {
			ln, host, port := listen()
			defer ln.Close()

			go func() {
				defer GinkgoRecover()

				peer, err := ln.Accept()
				Expect(err).To(Succeed())

				_, err = peer.Write([]byte("+OK\r\n"))
				Expect(err).To(Succeed())
			}()

			conn, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(err).To(Succeed())
			defer conn.Close()

			p := make([]byte, 64)
			n, err := conn.Recv(p, time.Now().Add(time.Second))
			Expect(err).To(Succeed())
			Expect(string(p[:n])).To(Equal("+OK\r\n"))
		})

		It("reports ErrTimeout when the peer stays silent", func() {
			ln, host, port := listen()
			defer ln.Close()

			go func() {
				defer GinkgoRecover()

				_, err := ln.Accept()
				Expect(err).To(Succeed())
			}()

			conn, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(err).To(Succeed())
			defer conn.Close()

			p := make([]byte, 64)
			_, err = conn.Recv(p, time.Now().Add(50*time.Millisecond))
			Expect(errors.Is(err, protocol.ErrTimeout)).To(BeTrue())
		})

		It("reports ErrRecv when the peer closes first", func() {
			ln, host, port := listen()
			defer ln.Close()

			go func() {
				defer GinkgoRecover()

				peer, err := ln.Accept()
				Expect(err).To(Succeed())
				Expect(peer.Close()).To(Succeed())
			}()

			conn, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(err).To(Succeed())
			defer conn.Close()

			p := make([]byte, 64)
			_, err = conn.Recv(p, time.Now().Add(time.Second))
			Expect(errors.Is(err, protocol.ErrRecv)).To(BeTrue())
		})
	})

	Describe("SendAll()", func() {
		It("writes the whole payload to a reading peer", func() {
			ln, host, port := listen()
			defer ln.Close()

			received := make(chan string, 1)

			go func() {
				defer GinkgoRecover()

				peer, err := ln.Accept()
				Expect(err).To(Succeed())

				p := make([]byte, 64)
				n, err := peer.Read(p)
				Expect(err).To(Succeed())

				received <- string(p[:n])
			}()

			conn, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(err).To(Succeed())
			defer conn.Close()

			n, err := conn.SendAll([]byte("PING\r\n"), time.Now().Add(time.Second))
			Expect(err).To(Succeed())
			Expect(n).To(Equal(6))

			Expect(<-received).To(Equal("PING\r\n"))
		})

		It("returns a short count without error when the deadline passes first", func() {
			ln, host, port := listen()
			defer ln.Close()

			go func() {
				defer GinkgoRecover()

				// Accept and keep the socket open without reading, so the
				// kernel buffers fill and the sender stalls.
				_, err := ln.Accept()
				Expect(err).To(Succeed())
			}()

			conn, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(err).To(Succeed())
			defer conn.Close()

			payload := make([]byte, 64<<20)
			n, err := conn.SendAll(payload, time.Now().Add(200*time.Millisecond))
			Expect(err).To(Succeed())
			Expect(n).To(BeNumerically("<", len(payload)))
		})

		It("reports ErrSend once the connection is closed", func() {
			ln, host, port := listen()
			defer ln.Close()

			conn, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(err).To(Succeed())
			Expect(conn.Close()).To(Succeed())

			_, err = conn.SendAll([]byte("PING\r\n"), time.Now().Add(time.Second))
			Expect(errors.Is(err, protocol.ErrSend)).To(BeTrue())
		})
	})

	Describe("Close()", func() {
		It("does not error when closed twice", func() {
			ln, host, port := listen()
			defer ln.Close()

			conn, err := transport.Dial(context.Background(), host, port, time.Second)
			Expect(err).To(Succeed())

			Expect(conn.Close()).To(Succeed())
			Expect(conn.Close()).To(Succeed())
		})
	})
})
