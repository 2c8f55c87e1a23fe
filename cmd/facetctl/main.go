package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/matst80/slask-facets/pkg/catalog"
	"github.com/matst80/slask-facets/pkg/config"
	"github.com/matst80/slask-facets/pkg/messaging"
	"github.com/matst80/slask-facets/pkg/render"
	"github.com/matst80/slask-facets/pkg/session"
	"github.com/matst80/slask-facets/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// selections collects repeated -select facet=value flags in order.
type selections []types.FilterChange

func (s *selections) String() string {
	parts := make([]string, len(*s))
	for i, c := range *s {
		parts[i] = fmt.Sprintf("%s=%s", c.Facet, c.Value)
	}
	return strings.Join(parts, ",")
}

func (s *selections) Set(v string) error {
	name, value, ok := strings.Cut(v, "=")
	if !ok {
		return errors.New("expected facet=value")
	}
	f, err := types.ParseFacetName(name)
	if err != nil {
		return err
	}
	*s = append(*s, types.FilterChange{Facet: f, Value: value, Checked: true})
	return nil
}

var (
	configPath = flag.String("config", "", "path to a config file")
	filePath   = flag.String("file", "", "read the collection from a json file instead of the api")
	locationId = flag.String("location", "", "location id to scope the fetch to")
	verbose    = flag.Bool("v", false, "debug logging")
	notify     = flag.Bool("notify-changed", false, "publish a collection change so servers drop cached fetches, then exit")
	selected   selections
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !*verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

func notifyChanged(ctx context.Context, cfg *config.Config) error {
	if cfg.Rabbit.Url == "" {
		return errors.New("rabbit.url is not configured")
	}
	conn, err := amqp.Dial(cfg.Rabbit.Url)
	if err != nil {
		return err
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	err = messaging.DeclareExchange(ch, cfg.Country, messaging.CollectionChanged)
	ch.Close()
	if err != nil {
		return err
	}
	return messaging.SendChange(ctx, conn, cfg.Country, messaging.CollectionChanged, messaging.CollectionChange{Collection: cfg.Collection})
}

func newFetcher(cfg *config.Config, logger *zap.Logger) (session.Fetcher, types.PriorityOrder, error) {
	priority, err := cfg.PriorityOrder()
	if err != nil {
		return nil, nil, err
	}
	if *filePath != "" {
		return &catalog.FileFetcher{Path: *filePath}, priority, nil
	}
	return catalog.NewClient(cfg.ApiBaseUrl, cfg.Collection, cfg.FetchTimeout, logger), priority, nil
}

func run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *notify {
		return notifyChanged(ctx, cfg)
	}
	fetcher, priority, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	out := render.NewText(os.Stdout, priority)
	ctrl := session.NewController(fetcher, out, session.WithLogger(logger), session.WithPriority(priority))

	if *locationId != "" {
		err = ctrl.OnLocationChange(ctx, *locationId)
	} else {
		err = ctrl.OnInitialLoad(ctx)
	}
	if err != nil {
		return err
	}
	if fetchErr := ctrl.LastFetchError(); fetchErr != nil {
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", fetchErr)
	}

	for _, change := range selected {
		fmt.Fprintf(os.Stdout, "\n> %s = %s\n", render.FacetLabel(change.Facet), change.Value)
		if err := ctrl.OnFacetToggle(change.Facet, change.Value, change.Checked); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	flag.Var(&selected, "select", "facet=value to check, repeatable")
	flag.Parse()

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), logger); err != nil {
		logger.Error("facetctl failed", zap.Error(err))
		os.Exit(1)
	}
}
