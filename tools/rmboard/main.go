package main

import (
	"fmt"
	"log"

	"github.com/mdouchement/visionboard/internal/database"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

var codec string

// go run tools/rmboard/main.go visionboard.db board_1718000000000_k3j9x

func main() {
	c := &coral.Command{
		Use:   "rmboard DATABASE ID",
		Short: "Remove a board from the database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			//
			//
			fmt.Println("Opening", args[0])
			db, err := database.StormOpen(args[0], codec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			// Fetch board
			board, err := db.FindBoard(args[1])
			if err != nil {
				if db.IsNotFound(err) {
					fmt.Println("No board for this id")
					return nil
				}
				return errors.Wrap(err, "find board")
			}

			fmt.Printf("Board found: %s (%d bytes)\n", board.ID, len(board.Document))

			// Delete board
			err = db.Delete(board)
			if err != nil && !db.IsNotFound(err) {
				return errors.Wrap(err, "delete board")
			}
			fmt.Println("Board removed")

			return nil
		},
	}
	c.Flags().StringVar(&codec, "codec", "", "Database codec (msgpack, json, cbor or binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
