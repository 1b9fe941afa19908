package server

import (
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignal is closed when an interrupt or terminate signal arrives.
func shutdownSignal() <-chan struct{} {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		<-quit
		signal.Stop(quit)
		close(done)
	}()
	return done
}
