package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mikepea/bladetrack/cmd/bladetrack-server/internal/commands"
)

//go:generate swag init -g main.go -d .,../../pkg/bladetrack -o ../../api/swagger --parseDependency

// @title Bladetrack API
// @version 1.0
// @description Saw blade installation tracking for sawmills.

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token or API key. Format: "Bearer {token}"

var (
	version = "dev"
	cli     struct {
		Dev       bool                  `help:"Development mode: console logging, debug level, relaxed secret checks." env:"BLADETRACK_DEV"`
		Version   kong.VersionFlag      `help:"Print version and exit."`
		Serve     commands.ServeCmd     `cmd:"" help:"Start the HTTP server."`
		Provision commands.ProvisionCmd `cmd:"" help:"Create or update an organization and its first admin."`
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("bladetrack-server"),
		kong.Description("Blade installation tracker."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Dev: cli.Dev, Version: version})
	cmd.FatalIfErrorf(err)
}
