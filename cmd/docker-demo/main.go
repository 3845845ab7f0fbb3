package main

import (
	"os"

	"github.com/vinhhn3/docker-demo/internal/cli"
	"github.com/vinhhn3/docker-demo/internal/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger.Error("%v", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}
