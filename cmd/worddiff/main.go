// A command line tool to compare texts word by word
package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "worddiff",
	Level:  log.WarnLevel,
})

// Exit status
const (
	exitSame   = 0
	exitDiffer = 1
	exitError  = 2
)

func main() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		if sc := rootCmd.scratch.Load(); sc != nil {
			sc.Cleanup()
		}
		logger.Error("terminated", "signal", sig)
		os.Exit(exitError)
	}()
	os.Exit(run())
}

func run() int {
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return exitSame
	case errors.Is(err, errDifferences):
		return exitDiffer
	}
	logger.Error(err)
	return exitError
}
