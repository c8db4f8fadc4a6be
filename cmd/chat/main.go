// Command chat is a terminal client for the coaching chat API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		baseURL string
		token   string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the GymBro coach from a terminal",
	}
	cmd.PersistentFlags().StringVar(&baseURL, "url", envOr("GYMBRO_URL", "http://localhost:3000/api"), "API base URL")
	cmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GYMBRO_TOKEN"), "bearer token (see cmd/seed)")

	newClient := func() (*client, error) {
		if token == "" {
			return nil, fmt.Errorf("a token is required: pass --token or set GYMBRO_TOKEN")
		}
		return newAPIClient(baseURL, token), nil
	}

	cmd.AddCommand(sendCmd(newClient), replCmd(newClient), resetCmd(newClient))
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
