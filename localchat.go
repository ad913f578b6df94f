package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	cli "github.com/sebastianszewc/localchat/cmd/localchat"
)

func main() {
	// Load .env if present; missing file is fine.
	_ = godotenv.Load()

	if err := cli.SetupRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
