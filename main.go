package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"snake-game/config"
	"snake-game/game"
	"snake-game/ui"
	"snake-game/ui/terminal"

	"github.com/golang/glog"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		glog.Exitf("config: %s", err)
	}
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Frontend == config.FrontendSSH {
		server, err := terminal.NewServer(terminal.ServerOptions{
			Address:            cfg.SSH.Address,
			HostKeyFile:        cfg.SSH.HostKeyFile,
			Password:           cfg.SSH.Password,
			AuthorizedKeysFile: cfg.SSH.AuthorizedKeysFile,
			Grid:               cfg.Grid(),
			Tick:               cfg.Tick,
			Seed:               cfg.Seed,
		})
		if err != nil {
			glog.Exit(err)
		}
		if err := server.ListenAndServe(ctx); err != nil {
			glog.Exit(err)
		}
		return
	}

	g, err := game.NewGame(cfg.Grid(), cfg.Seed)
	if err != nil {
		glog.Exit(err)
	}
	glog.Infof("seed %d, run %s", cfg.Seed, g.RunID())

	switch cfg.Frontend {
	case config.FrontendWindow:
		err = ui.RunWindow(g, int32(cfg.CellSize), cfg.Tick)
	case config.FrontendTerminal:
		err = terminal.RunTerminal(ctx, g, cfg.Tick)
	}
	if err != nil {
		glog.Exit(err)
	}

	g.Finish()
	stats := g.Stats()
	glog.Infof("%d runs, best score %d, average %.1f, median %.1f",
		len(stats.Records()), stats.MaxScore(), stats.AverageScore(), stats.MedianScore())
}
