// Package main is the entry point for the reelbox application.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/reelbox/reelbox/cmd"
	"github.com/reelbox/reelbox/config"
	"github.com/reelbox/reelbox/log"
	"github.com/samber/lo"
)

func main() {
	if err := config.Setup(); err != nil {
		if !errors.Is(err, config.ErrInvalidValue) {
			lo.Must0(err)
		}
		fmt.Fprintf(os.Stderr, "using defaults for invalid settings:\n%s\n", err)
	}
	lo.Must0(log.Setup())

	cmd.Execute()
}
