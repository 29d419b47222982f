package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ppiankov/quickreview/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		// the error report has already been printed
		if !errors.Is(err, cli.ErrReviewFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
