// Command server runs the quizhub HTTP API.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/simp-lee/quizhub/internal/app"
	"github.com/simp-lee/quizhub/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	checkOnly := flag.Bool("check", false, "validate the configuration and exit")
	flag.Parse()

	if err := run(*configPath, *checkOnly, os.Stdout); err != nil {
		slog.Error("quizhub stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string, checkOnly bool, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if checkOnly {
		fmt.Fprintf(out, "%s: ok (mode=%s, database=%s)\n", configPath, cfg.Server.Mode, cfg.Database.Driver)
		return nil
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	return a.Run()
}
