package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	reuseport "github.com/kavu/go_reuseport"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesgretton/credis/client"
	"github.com/charlesgretton/credis/internal/env"
	"github.com/charlesgretton/credis/report"
)

var (
	// The server to connect to
	watchHost    string
	watchPort    int
	watchTimeout time.Duration

	// The host and port to serve HTTP requests on
	watchHTTPHost string
	watchHTTPPort string

	// How often to refresh the status report
	watchInterval time.Duration
)

func init() {
	flags := WatchCmd.PersistentFlags()

	flags.StringVarP(&watchHost, "host", "a", client.DefaultHost, "The server host to connect to")
	flags.IntVarP(&watchPort, "port", "p", client.DefaultPort, "The server port to connect to")
	flags.DurationVar(&watchTimeout, "timeout", client.DefaultTimeout, "Deadline for every server operation")

	flags.StringVar(&watchHTTPHost, "http-host", "0.0.0.0", "The host to serve HTTP requests on")
	flags.StringVar(&watchHTTPPort, "http-port", "7379", "The port to serve HTTP requests on")
	flags.DurationVar(&watchInterval, "interval", 10*time.Second, "How often to refresh the status report")
}

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Serve a server's status report over HTTP",
	Long: `Connect to a server, keep its status report fresh, and serve the
report as JSON over HTTP.

Usage
	credis watch -a localhost -p 6379 --http-port 7379

`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer signalStop()

		log, err := env.MakeLogger(debugLog)
		if err != nil {
			return err
		}

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		flags := cmd.Flags()

		if !flags.Changed("host") && conf.Host != "" {
			watchHost = conf.Host
		}

		if !flags.Changed("port") && conf.Port != 0 {
			watchPort = conf.Port
		}

		if !flags.Changed("timeout") && conf.Timeout() > 0 {
			watchTimeout = conf.Timeout()
		}

		conn, err := client.Dial(ctx, client.Options{
			Host:    watchHost,
			Port:    watchPort,
			Timeout: watchTimeout,
			Log:     log.Named("client"),
		})
		if err != nil {
			return err
		}

		w := &watcher{
			conn:  conn,
			cache: report.NewCache(),
			log:   log.Named("watcher"),
		}

		if err := w.refresh(); err != nil {
			log.Warn("Initial status report failed", zap.Error(err))
		}

		router := setupRouter(conf.DebugHTTP, log)

		router.GET("/healthz", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		// Round trips to the watched server, so this reports its
		// health rather than ours
		router.GET("/ping", func(c *gin.Context) {
			if err := w.ping(); err != nil {
				c.String(http.StatusBadGateway, "ping failed: %v", err)
				return
			}

			c.String(http.StatusOK, "pong")
		})

		router.GET("/status", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", w.cache.Snapshot())
		})

		listener, err := reuseport.Listen("tcp", net.JoinHostPort(watchHTTPHost, watchHTTPPort))
		if err != nil {
			return multierr.Append(err, w.close())
		}

		s := &http.Server{
			Handler: router,
		}

		// Serving in a goroutine so that it won't block the graceful
		// shutdown handling below
		go func() {
			if err := s.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
			}
		}()

		go w.loop(ctx, watchInterval)

		log.Info("Watching",
			zap.Any("config", conf),
			zap.String("host", watchHost),
			zap.Int("port", watchPort),
			zap.String("httpPort", watchHTTPPort),
			zap.Duration("interval", watchInterval))

		// Listen for the interrupt signal.
		<-ctx.Done()

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		// The server gets 5 seconds to finish the request it is
		// currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if serr := s.Shutdown(shutdownCtx); serr != nil {
			log.Error("Http server forced to shutdown", zap.Error(serr))
			err = multierr.Append(err, serr)
		}

		if cerr := w.close(); cerr != nil {
			log.Error("Connection did not close cleanly", zap.Error(cerr))
			err = multierr.Append(err, cerr)
		}

		log.Info("Exiting")
		return err
	},
}

// watcher serializes access to the connection between the refresher
// loop and the HTTP handlers.
type watcher struct {
	mu    sync.Mutex
	conn  *client.Conn
	cache *report.Cache
	log   *zap.Logger
}

func (w *watcher) refresh() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := w.conn.Info()
	if err != nil {
		return err
	}

	return w.cache.Update(w.conn.Addr(), w.conn.ServerVersion(), info)
}

func (w *watcher) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.conn.Ping()
}

func (w *watcher) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.conn.Close()
}

func (w *watcher) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := w.refresh(); err != nil {
				w.log.Warn("Failed to refresh the status report", zap.Error(err))
			}
		}
	}
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - Logs to stdout.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/healthz"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}
