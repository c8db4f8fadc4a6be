package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gymbro-be/internal/dto"
)

var (
	coachColor   = color.New(color.FgCyan)
	pendingColor = color.New(color.FgYellow)
	savedColor   = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed)
)

func sendCmd(newClient func() (*client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "send [message]",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := c.send(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			render(res)
			return nil
		},
	}
}

func replCmd(newClient func() (*client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive session; /reset starts over, /quit exits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			return repl(cmd.Context(), c)
		},
	}
}

func resetCmd(newClient func() (*client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the conversation and any unconfirmed log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.reset(cmd.Context()); err != nil {
				return err
			}
			savedColor.Println("Conversation reset.")
			return nil
		},
	}
}

func repl(ctx context.Context, c *client) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			if err := c.reset(ctx); err != nil {
				errorColor.Println(err)
			} else {
				savedColor.Println("Conversation reset.")
			}
			continue
		}

		res, err := c.send(ctx, line)
		if err != nil {
			errorColor.Println(err)
			continue
		}
		render(res)
	}
}

func render(res *dto.SendChatResponse) {
	coachColor.Printf("coach [%s]: ", res.Intent)
	fmt.Println(res.Reply)
	switch {
	case res.PendingLog != nil:
		pendingColor.Printf("pending %s:\n%s\n", res.PendingLog.Kind, res.PendingLog.Summary)
		pendingColor.Println(`reply "yes" to save it, or describe a correction`)
	case res.Transition == "committed":
		savedColor.Printf("saved (%s)\n", res.RecordId)
	}
}
