package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	serverReadTimeout  = 60 * time.Second
	serverWriteTimeout = 60 * time.Second

	gracefulEnvKey   = "IS_GRACEFUL"
	gracefulEnvPair  = gracefulEnvKey + "=1"
	gracefulListener = 3 // fd inherited by the restarted child
)

// GraceServer serves handler on addr with graceful shutdown on SIGTERM and
// zero-downtime restart on SIGUSR2 (fork-exec passing the listener fd).
func GraceServer(addr string, handler http.Handler) error {
	srv := &graceServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
		},
		inherited: os.Getenv(gracefulEnvKey) != "",
		signals:   make(chan os.Signal, 1),
		done:      make(chan struct{}),
	}
	return srv.listenAndServe()
}

type graceServer struct {
	srv       *http.Server
	listener  net.Listener
	inherited bool
	signals   chan os.Signal
	done      chan struct{}
}

func (g *graceServer) listenAndServe() error {
	ln, err := g.listen()
	if err != nil {
		return err
	}
	g.listener = ln

	go g.handleSignals()
	err = g.srv.Serve(ln)
	// Serve returns ErrServerClosed once Shutdown begins; wait for it to finish.
	<-g.done
	return err
}

func (g *graceServer) listen() (net.Listener, error) {
	if g.inherited {
		ln, err := net.FileListener(os.NewFile(gracefulListener, ""))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", g.srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", g.srv.Addr, err)
	}
	return ln, nil
}

func (g *graceServer) handleSignals() {
	signal.Notify(g.signals, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range g.signals {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("received SIGTERM, shutting down HTTP server")
			g.shutdown()
		case syscall.SIGUSR2:
			Sugar.Info("received SIGUSR2, restarting HTTP server")
			pid, err := g.forkChild()
			if err != nil {
				Sugar.Errorf("restart failed: %v, continue serving", err)
				continue
			}
			Sugar.Infof("child started pid=%d, closing old server", pid)
			g.shutdown()
		}
	}
}

func (g *graceServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := g.srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server shutdown complete")
	}
	close(g.done)
}

// forkChild starts a replacement process that inherits the listener fd so no
// connections are dropped during the swap.
func (g *graceServer) forkChild() (int, error) {
	tcpLn, ok := g.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("get listener file: %w", err)
	}

	env := []string{}
	for _, e := range os.Environ() {
		if e != gracefulEnvPair {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvPair)

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}
