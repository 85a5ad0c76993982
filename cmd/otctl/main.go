package main

import (
	"fmt"
	"os"

	"maintenanceManagement/internal/cli"
	"maintenanceManagement/internal/config"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	os.Exit(cli.Run(cli.NewApp(cfg), os.Args[1:]))
}
