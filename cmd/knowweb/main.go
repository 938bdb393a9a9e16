package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/delaneyj/knowweb/config"
	"github.com/delaneyj/knowweb/site"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	configKey = "config"
	debugKey  = "debug"
	addrKey   = "addr"
	widthKey  = "width"
	depthKey  = "depth"
	itersKey  = "iters"
)

func main() {
	cmd := &cli.Command{
		Name:  "knowweb",
		Usage: "Serve and inspect the know-web site",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configKey,
				Usage:   "YAML site file, the built-in site when empty",
				Sources: cli.EnvVars("KNOWWEB_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    debugKey,
				Usage:   "Development logging",
				Sources: cli.EnvVars("KNOWWEB_DEBUG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Render the site over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    addrKey,
						Usage:   "Listen address, overriding the site file",
						Sources: cli.EnvVars("KNOWWEB_ADDR"),
					},
				},
				Action: serve,
			},
			{
				Name:      "render",
				Usage:     "Print the page for a URL",
				ArgsUsage: "<url>",
				Action:    render,
			},
			{
				Name:   "routes",
				Usage:  "List routes, most specific first",
				Action: routes,
			},
			{
				Name:  "bench",
				Usage: "Measure store propagation and component flushes",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: widthKey, Usage: "Largest fan-out", Value: 1_000},
					&cli.UintFlag{Name: depthKey, Usage: "Largest chain depth", Value: 100},
					&cli.UintFlag{Name: itersKey, Usage: "Samples per case", Value: 100},
				},
				Action: bench,
			},
		},
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadSite(cmd *cli.Command) (*config.Site, error) {
	path := cmd.String(configKey)
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path, site.PageNames()...)
}

func loadApp(cmd *cli.Command) (*site.App, *config.Site, error) {
	cfg, err := loadSite(cmd)
	if err != nil {
		return nil, nil, err
	}
	app, err := site.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return app, cfg, nil
}

func newLogger(cmd *cli.Command) (*zap.Logger, error) {
	if cmd.Bool(debugKey) {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func render(ctx context.Context, cmd *cli.Command) error {
	url := cmd.Args().First()
	if url == "" {
		return fmt.Errorf("render: missing url")
	}
	app, _, err := loadApp(cmd)
	if err != nil {
		return err
	}
	res := app.Render(url)
	app.WritePage(os.Stdout, res)
	if res.Status != 200 {
		log.Printf("%s: %d", url, res.Status)
	}
	return nil
}
