package main

import (
	"context"
	"os"
)

func main() {
	code := 0
	if err := rootCmd.Execute(); err != nil {
		code = 1
	}
	if shouldPause() {
		_ = pause.WaitForKey(context.Background())
	}
	os.Exit(code)
}
