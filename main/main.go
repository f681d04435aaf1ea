package main

import (
	"os"

	"github.com/rawbytedev/slice/internal/logger"
)

func main() {
	defer logger.Sync()
	if err := newApp().Run(os.Args); err != nil {
		logger.Errorf("slicetool: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}
