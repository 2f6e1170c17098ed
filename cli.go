// cli.go
//
// Command-line surface.
//
//   gumballz [serve]              run the HTTP server (default)
//   gumballz levels [--topics]    print the levels view
//   gumballz topics --level A1    print the topics of one level
//   gumballz lesson A1 Greetings  print one lesson
//   gumballz stats                print aggregate statistics
//
// Configuration comes from --config (or GUMBALLZ_CONFIG), .env and the
// environment; see internal/config.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/gumballz/internal/config"
	"github.com/robalobadob/gumballz/internal/httpserver"
	"github.com/robalobadob/gumballz/internal/sheet"
	"github.com/robalobadob/gumballz/internal/store"
	"github.com/robalobadob/gumballz/internal/vocab"
)

// app carries what every subcommand needs once config is loaded.
type app struct {
	configFile string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "gumballz",
		Short:         "Vocabulary API over a published Google Sheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve()
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", os.Getenv("GUMBALLZ_CONFIG"), "path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve()
			},
		},
		a.levelsCmd(),
		a.topicsCmd(),
		a.lessonCmd(),
		a.statsCmd(),
	)
	return root
}

// init loads configuration and configures the global logger.
func (a *app) init() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return fmt.Errorf("config.Load > %w", err)
	}
	a.cfg = cfg

	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}

// newCache wires fetcher → cache from config.
func (a *app) newCache() *store.Cache {
	fetcher := sheet.NewClient(a.cfg.Sheet.URL)
	return store.New(fetcher,
		store.WithTTL(a.cfg.Cache.TTL),
		store.WithFetchTimeout(a.cfg.Sheet.FetchTimeout),
		store.WithParseOptions(vocab.ParseOptions{SkipHeader: a.cfg.Sheet.SkipHeader}),
	)
}

func (a *app) serve() error {
	srv, err := httpserver.New(a.newCache(), httpserver.Options{
		HandlerTimeout: a.cfg.Server.HandlerTimeout,
		Location:       a.cfg.Location(),
		SampleSize:     a.cfg.Dashboard.SampleSize,
		AdminSecret:    a.cfg.Admin.JWTSecret,
	})
	if err != nil {
		return fmt.Errorf("httpserver.New > %w", err)
	}
	log.Info().
		Str("port", a.cfg.Server.Port).
		Str("sheet", a.cfg.Sheet.URL).
		Dur("ttl", a.cfg.Cache.TTL).
		Bool("admin", a.cfg.Admin.JWTSecret != "").
		Msg("starting gumballz")
	return srv.Start(":" + a.cfg.Server.Port)
}

// records fetches the sheet once for the one-shot commands.
func (a *app) records(ctx context.Context) ([]vocab.Record, error) {
	snap, err := a.newCache().Get(ctx, true)
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) levelsCmd() *cobra.Command {
	var withTopics bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Print every level with word and topic counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.records(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), vocab.Levels(records, withTopics))
		},
	}
	cmd.Flags().BoolVar(&withTopics, "topics", false, "include the topics of each level")
	return cmd
}

func (a *app) topicsCmd() *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Print the topics of one level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.records(cmd.Context())
			if err != nil {
				return err
			}
			topics, err := vocab.Topics(records, level)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), topics)
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "level code, e.g. A1")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func (a *app) lessonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lesson <level> <topic>",
		Short: "Print the words of one lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.records(cmd.Context())
			if err != nil {
				return err
			}
			words, err := vocab.Lesson(records, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), words)
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.records(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), vocab.Stats(records))
		},
	}
}
