package main

import (
	"os"

	"github.com/evsight/plugpredict/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
