package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aryanA101a/lulu/translate"
	"github.com/aryanA101a/lulu/vm"
)

var f = translate.From

const (
	exitHalt      = 0
	exitRuntime   = 1
	exitUsage     = 2
	exitLoad      = 3
	exitInterrupt = 130
)

func main() {
	os.Exit(run())
}

// run returns the process exit status, so deferred cleanup happens
// before main exits.
func run() int {
	var verbose bool
	var logFile string

	flag.BoolVar(&verbose, "v", false, "Trace every executed instruction to the log")
	flag.StringVar(&logFile, "l", "", "Write the log to this file instead of stderr")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), f("usage: %v [-v] [-l log-file] image-file1 [image-file2 ...]", os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return exitUsage
	}

	if len(logFile) != 0 {
		lf, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("%v: %v", logFile, err)
			return exitUsage
		}
		defer lf.Close()
		log.SetOutput(lf)
	}

	terminal := vm.NewTerminal(os.Stdin, os.Stdout)
	machine := vm.NewVM(terminal)
	machine.Verbose = verbose

	for _, path := range flag.Args() {
		if err := machine.LoadFile(path); err != nil {
			fmt.Fprintln(os.Stderr, f("failed to load image: %v", err))
			return exitLoad
		}
	}

	if err := terminal.EnableRawMode(); err != nil {
		log.Printf("raw mode: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := machine.Run(ctx)
	stop()

	if err := terminal.DisableRawMode(); err != nil {
		log.Printf("raw mode: %v", err)
	}

	if verbose {
		regs := machine.Registers()
		log.Printf("PC=0x%04x COND=%v R=%04x", regs.PC, regs.Cond, regs.R)
	}

	switch {
	case err == nil:
		return exitHalt
	case errors.Is(err, context.Canceled):
		fmt.Println()
		return exitInterrupt
	default:
		fmt.Fprintln(os.Stderr, err)
		return exitRuntime
	}
}
