// Package main is the entry point for the jellypick application.
package main

import (
	"github.com/jellypick-cli/jellypick/cmd"
	"github.com/jellypick-cli/jellypick/config"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
