package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"wealthsync/cmd/executor"
	"wealthsync/cmd/keys"
	"wealthsync/src/app"
	"wealthsync/src/database"
	"wealthsync/src/executors"
	"wealthsync/src/server"
)

var Version string

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "wealthsync"
	cliApp.Usage = "The wealthsync command line interface"
	cliApp.Version = Version

	cliApp.Commands = []cli.Command{
		serveCMD,
		syncCMD,
		importCMD,
		breakdownCMD,
		resolveCMD,
		setKeyCMD,
		newKeyCMD,
	}

	if err := cliApp.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the HTTP server and the sync loop",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Serve the HTTP surface on PORT and sync in the background`,
	}
	syncCMD = cli.Command{
		Name:      "sync",
		Usage:     "run the holdings sync loop",
		Action:    syncAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "once", Usage: "run a single tick and exit"},
		},
		Description: `Reload holdings and refresh the dashboard on every SYNC_PERIOD`,
	}
	importCMD = cli.Command{
		Name:        "import",
		Usage:       "import the Trading 212 portfolio",
		Action:      importAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Import the Trading 212 portfolio with the stored credentials`,
	}
	breakdownCMD = cli.Command{
		Name:        "breakdown",
		Usage:       "print the net worth breakdown",
		Action:      breakdownAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Print the per platform breakdown of the saved collection`,
	}
	resolveCMD = cli.Command{
		Name:        "resolve",
		Usage:       "resolve market metadata",
		Action:      resolveAction,
		ArgsUsage:   "SYMBOL [SYMBOL...]",
		Flags:       []cli.Flag{},
		Description: `Resolve display names for canonical symbols`,
	}
	setKeyCMD = cli.Command{
		Name:        "set_key",
		Usage:       "store brokerage credentials",
		Action:      setKeyAction,
		ArgsUsage:   "API_KEY API_SECRET",
		Flags:       []cli.Flag{},
		Description: `Seal and store the API key pair for KEYS_INTEGRATION`,
	}
	newKeyCMD = cli.Command{
		Name:        "new_key",
		Usage:       "generate a CREDENTIALS_KEY",
		Action:      newKeyAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Print a random key for sealing stored credentials`,
	}
)

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting serve CMD")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	go func() {
		if err := executors.StartLoop(ctx, a.SyncTasks()); err != nil {
			logrus.WithError(err).Error("Sync loop stopped")
		}
	}()

	return server.StartServer(ctx, server.GetConfig().Port, server.NewRouter(a))
}

func syncAction(c *cli.Context) error {
	logrus.Info("Starting sync CMD")

	e := &executor.Executor{Once: c.Bool("once")}
	if err := e.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func importAction(_ *cli.Context) error {
	ctx := context.Background()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	result, err := a.ImportStored(ctx)
	if err != nil {
		logrus.WithError(err).Error("Import failed")
		return err
	}

	return printJSON(result)
}

func breakdownAction(_ *cli.Context) error {
	a, err := buildApp(context.Background())
	if err != nil {
		return err
	}
	return printJSON(a.Aggregator.Breakdown())
}

func resolveAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one symbol is required")
	}

	ctx := context.Background()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	res := a.Resolver.Resolve(ctx, c.Args())
	return printJSON(res.BySymbol)
}

func setKeyAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: set_key API_KEY API_SECRET")
	}
	return keys.SetKey(context.Background(), c.Args().Get(0), c.Args().Get(1))
}

func newKeyAction(_ *cli.Context) error {
	return keys.NewKey(os.Stdout)
}

func buildApp(ctx context.Context) (*app.App, error) {
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return nil, err
	}
	return app.Build(ctx, database.MainDB)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
