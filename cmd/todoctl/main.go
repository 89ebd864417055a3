// todoctl talks to a running voice-todo server from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	serverURL string
	token     string
)

var rootCmd = &cobra.Command{
	Use:   "todoctl",
	Short: "todoctl - voice-todo command line client",
	Long: `todoctl sends text and recordings to a voice-todo server.

  todoctl login -u ada -p secret                    Get a token
  todoctl action "bought groceries" --todos list.json Determine an action
  todoctl transcribe memo.webm                      Transcribe a recording`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("TODO_SERVER", "http://localhost:9871"), "voice-todo server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TODO_TOKEN"), "bearer token (see todoctl login)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
