package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/lexicon"
	"github.com/nzebi/dico/pkg/overlay"
	"github.com/nzebi/dico/pkg/source"
	"github.com/nzebi/dico/pkg/word"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = errors.New("parsing flags")

func newApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Browse and edit the Nzébi-French dictionary.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "bulk",
				Usage:   "bulk word list, a file `PATH` or an http(s) URL",
				Aliases: []string{"b"},
				EnvVars: []string{"NZEBI_BULK"},
			},
			&cli.StringFlag{
				Name:    "overlay",
				Usage:   "directory of the local changes database",
				Aliases: []string{"o"},
				EnvVars: []string{"NZEBI_OVERLAY_PATH"},
				Value:   "nzebi-overlay",
			},
			&cli.BoolFlag{
				Name:  "in-memory",
				Usage: "keep local changes in memory only",
			},
			&cli.StringFlag{
				Name:    "categories",
				Usage:   "YAML category tree",
				EnvVars: []string{"NZEBI_CATEGORIES_PATH"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "log to stderr",
				Aliases: []string{"v"},
			},
		},
		Commands: []*cli.Command{
			searchCommand,
			showCommand,
			categoriesCommand,
			addCommand,
			editCommand,
			deleteCommand,
			favoriteCommand,
			favoritesCommand,
		},
	}
}

// dictionary is the service opened from the global flags.
type dictionary struct {
	*lexicon.Service
	store *overlay.Store
}

func (d *dictionary) Close() error {
	serviceErr := d.Service.Close()
	storeErr := d.store.Close()
	if serviceErr != nil {
		return serviceErr
	}
	return storeErr
}

func openDictionary(c *cli.Context) (*dictionary, error) {
	logger := zap.NewNop()
	if c.Bool("verbose") {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	store, err := overlay.Open(&overlay.Config{
		Path:     c.String("overlay"),
		InMemory: c.Bool("in-memory"),
	}, logger)
	if err != nil {
		return nil, err
	}

	var tree *word.Tree
	if path := c.String("categories"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("can not open categories: %w", err)
		}
		tree, err = word.LoadTree(f)
		f.Close()
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	var static source.Source
	if bulk := c.String("bulk"); bulk != "" {
		config := &source.StaticConfig{Path: bulk}
		if u, err := url.Parse(bulk); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			config = &source.StaticConfig{URL: bulk}
		}
		static = source.NewStatic(nil, config, logger)
	}

	loader := source.Default(static, store, nil, nil, logger)
	cache := lexicon.NewCache(loader, nil, nil, logger)
	service := lexicon.NewService(cache, store, nil, tree, nil, nil, logger)
	return &dictionary{Service: service, store: store}, nil
}

// withDictionary runs fn with the dictionary and closes it afterwards.
func withDictionary(fn func(ctx context.Context, c *cli.Context, d *dictionary) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		d, err := openDictionary(c)
		if err != nil {
			return err
		}
		defer d.Close()
		return fn(c.Context, c, d)
	}
}

func requireID(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%w: expected one word id", ErrFlagParse)
	}
	return strings.TrimSpace(c.Args().First()), nil
}
