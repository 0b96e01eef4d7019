// apps/go-classic/main.go
//
// Entry point. All wiring lives in cmd.go; see `wordle --help`.

package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
