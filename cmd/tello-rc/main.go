package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Setup SetupCommand `command:"setup" description:"Check the drone link and save flight settings"`
	Fly   FlyCommand   `command:"fly" description:"Fly the drone from a terminal cockpit"`
	Video VideoCommand `command:"video" description:"Stream or record the onboard camera"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "tello-rc - Keyboard flight control for the DJI Tello quadcopter"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
