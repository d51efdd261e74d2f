package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Players PlayersCmd       `cmd:"" help:"Manage players"`
	Play    PlayCmd          `cmd:"" help:"Score a game in the terminal"`
	History HistoryCmd       `cmd:"" help:"List finished matches and practice rounds"`
	Match   MatchCmd         `cmd:"" help:"Show statistics for a finished match"`
}

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("darts"),
		kong.Description("Darts scorer for X01 matches and Around the Clock practice"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
