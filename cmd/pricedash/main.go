package main

import (
	"context"
	"log/slog"
	"os"

	"pricedash/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		slog.Error("pricedash failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
