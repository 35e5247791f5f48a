package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"runtime"
	"strings"

	"github.com/mdouchement/visionboard/internal/config"
	"github.com/mdouchement/visionboard/internal/database"
	"github.com/mdouchement/visionboard/internal/logger"
	"github.com/mdouchement/visionboard/internal/server"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "visionboardd",
		Short:   "Vision board document server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := config.Load(cfg)
			if err != nil {
				return err
			}

			return database.StormInit(konf.DatabasePath, konf.DatabaseCodec)
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := config.Load(cfg)
			if err != nil {
				return err
			}

			return database.StormReIndex(konf.DatabasePath, konf.DatabaseCodec)
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := config.Load(cfg)
			if err != nil {
				return err
			}

			l, err := logger.New(logger.Options{
				File:    konf.Log.File,
				Level:   konf.Log.Level,
				Console: true,
			})
			if err != nil {
				return err
			}

			db, err := database.StormOpen(konf.DatabasePath, konf.DatabaseCodec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine := server.EchoEngine(server.IOC{
				Version:   version,
				Database:  db,
				Logger:    l,
				BodyLimit: konf.BodyLimit,
			})
			server.PrintRoutes(engine)

			address := konf.Address
			message := "could not run server"
			l.Infof("Server listening on %s", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					l.Infof("Removing existing %s", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)
