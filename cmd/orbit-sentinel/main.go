package main

import (
	"fmt"
	"os"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
