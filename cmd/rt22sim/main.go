// cmd/rt22sim/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pborman/getopt"
	"go.uber.org/zap"

	"github.com/tamzrod/rt22-antcn/internal/devsim"
	"github.com/tamzrod/rt22-antcn/internal/logging"
)

func main() {
	h := getopt.BoolLong("help", 'h', "display help")
	l := getopt.StringLong("listen", 'l', "127.0.0.1:5001", "Listen address")
	v := getopt.BoolLong("verbose", 'v', "Enable verbose (debug) logging")

	getopt.Parse()

	if *h {
		fmt.Println("rt22sim - RT-22 antenna controller simulator")
		getopt.Usage()
		os.Exit(1)
	}

	level := "info"
	if *v {
		level = "debug"
	}
	log, closeLog, err := logging.New(logging.Config{Level: level})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging setup failed:", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := devsim.New(devsim.Config{Listen: *l, Logger: log})
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error("simulator stopped", zap.Error(err))
		closeLog()
		os.Exit(1)
	}
}
