package main

import (
	"os"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/cmd/questionsel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
