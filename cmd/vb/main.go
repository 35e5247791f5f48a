package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mdouchement/visionboard/internal/client"
	"github.com/mdouchement/visionboard/internal/config"
	"github.com/mdouchement/visionboard/internal/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg     string
	boardID string
)

func main() {
	c := &cobra.Command{
		Use:           "vb",
		Short:         "Vision board and journal",
		Version:       fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.PersistentFlags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.PersistentFlags().StringVarP(&boardID, "board", "b", "", "Board identifier (last opened board by default)")

	showCmd.Flags().BoolVar(&dump, "dump", false, "Dump the whole document")
	c.AddCommand(showCmd)
	c.AddCommand(addCmd)
	c.AddCommand(editCmd)
	c.AddCommand(deleteCmd)
	c.AddCommand(moveCmd)
	journalCmd.Flags().StringVarP(&title, "title", "t", "", "Entry title")
	journalCmd.Flags().StringVarP(&sticker, "sticker", "s", "", "Entry sticker")
	c.AddCommand(journalCmd)
	c.AddCommand(headerCmd)
	chatCmd.Flags().IntVar(&history, "history", 20, "Number of previous messages printed")
	c.AddCommand(chatCmd)
	c.AddCommand(exportCmd)
	c.AddCommand(importCmd)
	c.AddCommand(uploadCmd)
	c.AddCommand(imagineCmd)
	c.AddCommand(lockCmd)
	c.AddCommand(unlockCmd)
	c.AddCommand(resetCmd)
	c.AddCommand(watchCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// run opens the board, runs fn and flushes the pending changes.
func run(fn func(ctx context.Context, s *client.Session) error) (err error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	konf, err := config.Load(cfg)
	if err != nil {
		return err
	}

	l, err := logger.New(logger.Options{
		File:  konf.Log.File,
		Level: konf.Log.Level,
	})
	if err != nil {
		return err
	}

	s, err := client.Open(ctx, client.Options{
		Config:  konf,
		Logger:  l,
		BoardID: boardID,
		Ask:     client.AskCode,
	})
	if err != nil {
		return err
	}
	defer func() {
		// Pending changes must be saved even if fn has been interrupted.
		if cerr := s.Close(context.Background()); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "could not save board")
		}
	}()

	return fn(ctx, s)
}

var (
	dump    bool
	title   string
	sticker string
	history int

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the board",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Show(s.Store, os.Stdout, dump)
			})
		},
	}

	addCmd = &cobra.Command{
		Use:   "add TYPE CONTENT [KEY=VALUE...]",
		Short: "Add a note, goal, quote or image URL to the board",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Add(s.Store, os.Stdout, args[0], args[1], args[2:])
			})
		},
	}

	editCmd = &cobra.Command{
		Use:   "edit ID KEY=VALUE...",
		Short: "Edit an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Edit(s.Store, args[0], args[1:])
			})
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Delete(s.Store, args[0])
			})
		},
	}

	moveCmd = &cobra.Command{
		Use:   "move FROM TO",
		Short: "Move a board item, positions are those printed by show",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid position")
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrap(err, "invalid position")
			}

			return run(func(_ context.Context, s *client.Session) error {
				return client.Move(s.Store, from, to)
			})
		},
	}

	journalCmd = &cobra.Command{
		Use:   "journal CONTENT",
		Short: "Write a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Journal(s.Store, os.Stdout, title, strings.Join(args, " "), sticker)
			})
		},
	}

	headerCmd = &cobra.Command{
		Use:   "header KEY=VALUE...",
		Short: "Edit the board header",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Header(s.Store, args)
			})
		},
	}

	chatCmd = &cobra.Command{
		Use:   "chat [MESSAGE]",
		Short: "Chat with your coach",
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, s *client.Session) error {
				if len(args) > 0 {
					return client.Say(ctx, s.Store, os.Stdout, strings.Join(args, " "))
				}
				return client.Chat(ctx, s.Store, history)
			})
		},
	}

	exportCmd = &cobra.Command{
		Use:   "export FILENAME",
		Short: "Export the board to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Export(s.Store, args[0])
			})
		},
	}

	importCmd = &cobra.Command{
		Use:   "import FILENAME",
		Short: "Replace the board with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Import(s.Store, args[0])
			})
		},
	}

	uploadCmd = &cobra.Command{
		Use:   "upload FILENAME [KEY=VALUE...]",
		Short: "Add an image to the board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, s *client.Session) error {
				return client.Upload(ctx, s.Store, os.Stdout, args[0], args[1:])
			})
		},
	}

	imagineCmd = &cobra.Command{
		Use:   "imagine PROMPT [KEY=VALUE...]",
		Short: "Generate an image and add it to the board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(func(ctx context.Context, s *client.Session) error {
				return client.Imagine(ctx, s.Store, os.Stdout, args[0], args[1:])
			})
		},
	}

	lockCmd = &cobra.Command{
		Use:   "lock",
		Short: "Protect the app with a 4-digit code",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Lock(s.Settings)
			})
		},
	}

	unlockCmd = &cobra.Command{
		Use:   "unlock",
		Short: "Remove the app code",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				return client.Unlock(s.Settings)
			})
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Replace the board with the default content",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(func(_ context.Context, s *client.Session) error {
				answer, err := readline.Line("Type `reset` to confirm: ")
				if err != nil {
					return errors.Wrap(err, "could not read confirmation")
				}
				if strings.TrimSpace(answer) != "reset" {
					return errors.New("aborted")
				}

				return client.Reset(s.Store)
			})
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Follow the changes made on other devices",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(func(ctx context.Context, s *client.Session) error {
				err := client.Watch(ctx, s.Store, os.Stdout, s.Logger())
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
)
