package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/autobacklog/internal/api"
	"github.com/alexanderramin/autobacklog/internal/cli"
	"github.com/alexanderramin/autobacklog/internal/logging"
	"github.com/alexanderramin/autobacklog/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.UserMessage(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCloser io.Closer
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}()

	app := &cli.App{}

	// Services are wired after the config is loaded, since the backend
	// URL and log settings come from file, env and flags.
	app.Setup = func(a *cli.App) error {
		logger, closer, err := logging.Open(a.Config.Log)
		if err != nil {
			return err
		}
		logCloser = closer
		a.Logger = logger

		client := api.NewClient(a.Config.API.Client(), api.NewLogObserver(logger))
		observer := service.NewLogUseCaseObserver(logger)

		a.Projects = service.NewProjectService(client, observer)
		a.Generate = service.NewGenerateService(client, observer)
		a.Import = service.NewImportService(client, observer)
		a.Items = service.NewItemService(client, observer)
		a.Boards = service.NewBoardService(client, observer)
		return nil
	}

	// Detect interactive terminal for shell-only entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
