package main

import (
	"context"
	"os"

	"github.com/aussiebroadwan/authlab/internal/authlab/app"
)

func main() {
	os.Exit(app.Main(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
