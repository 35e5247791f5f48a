package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mdouchement/visionboard/internal/board"
	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
)

// Chat prints the chat log and runs the chat prompt until EOF or `/quit`.
func Chat(ctx context.Context, s *board.Store, history int) error {
	doc, err := s.Document()
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return errors.Wrap(err, "could not start prompt")
	}
	defer rl.Close()

	messages := doc.ChatMessages
	if history > 0 && len(messages) > history {
		messages = messages[len(messages)-history:]
	}
	for _, m := range messages {
		printMessage(rl.Stdout(), m)
	}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "could not read message")
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/status":
			PrintStatus(s, rl.Stdout())
			continue
		case "/retry":
			if err = s.Retry(ctx); err != nil {
				fmt.Fprintf(rl.Stderr(), "could not save: %s\n", err)
			}
			continue
		}

		reply, err := s.SendMessage(ctx, line)
		if err != nil {
			return errors.Wrap(err, "could not send message")
		}
		printMessage(rl.Stdout(), reply)
	}
}

// Say sends a single message and prints the reply.
func Say(ctx context.Context, s *board.Store, w io.Writer, text string) error {
	reply, err := s.SendMessage(ctx, text)
	if err != nil {
		return errors.Wrap(err, "could not send message")
	}

	printMessage(w, reply)
	return nil
}

func printMessage(w io.Writer, m libvb.ChatMessage) {
	name := "you"
	if m.Role == libvb.RoleModel {
		name = "coach"
	}
	fmt.Fprintf(w, "%s [%s]> %s\n", name, m.Timestamp.Local().Format("15:04"), m.Text)
}
