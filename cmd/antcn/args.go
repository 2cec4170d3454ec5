// cmd/antcn/args.go
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pborman/getopt"
)

var (
	configPath string
	verboseLog bool
	quietLog   bool
	endpoint   string
	sourceName string
	sourceRA   float64
	sourceDec  float64
)

func parseArgs() {
	h := getopt.BoolLong("help", 'h', "display help")
	c := getopt.StringLong("config", 'c', "", "YAML config file")
	v := getopt.BoolLong("verbose", 'v', "Enable verbose (debug) logging")
	q := getopt.BoolLong("quiet", 'q', "Disable console logging")
	e := getopt.StringLong("endpoint", 'e', "", "Antenna controller host:port, overrides config")
	s := getopt.StringLong("source", 's', "", "Initial source name")
	ra := getopt.StringLong("ra", 0, "0", "Initial source right ascension, radians")
	dec := getopt.StringLong("dec", 0, "0", "Initial source declination, radians")

	getopt.Parse()

	if *h || (*q && *v) {
		fmt.Println("antcn - RT-22 antenna control adapter")
		getopt.Usage()
		os.Exit(1)
	}

	configPath = *c
	verboseLog = *v
	quietLog = *q
	endpoint = *e
	sourceName = *s

	var err error
	if sourceRA, err = strconv.ParseFloat(*ra, 64); err != nil {
		fmt.Println("invalid --ra: can't parse", *ra)
		os.Exit(1)
	}
	if sourceDec, err = strconv.ParseFloat(*dec, 64); err != nil {
		fmt.Println("invalid --dec: can't parse", *dec)
		os.Exit(1)
	}
}
