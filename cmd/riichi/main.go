package main

import (
	"os"

	"github.com/okian/riichi/pkg/logger"
)

func main() {
	if err := logger.InitWith(os.Stderr, logger.FormatText); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	root := Root()
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		os.Stderr.WriteString("riichi: " + err.Error() + "\n")
		os.Exit(1)
	}
}
