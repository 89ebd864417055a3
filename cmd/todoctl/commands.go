package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"voice-todo/internal/model"

	"github.com/spf13/cobra"
)

var (
	actionEmoji string
	actionTodos string

	loginUser     string
	loginPassword string
)

var actionCmd = &cobra.Command{
	Use:   "action TEXT",
	Short: "Determine the to-do action for TEXT",
	Long: `Ask the server which action TEXT implies. --todos takes a JSON file
holding the current list ([{"id":"1","text":"buy groceries","completed":false}]).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := model.ActionRequest{Text: args[0], Emoji: actionEmoji}
		if actionTodos != "" {
			todos, err := readTodos(actionTodos)
			if err != nil {
				return err
			}
			req.Todos = todos
		}
		action, err := newClient().determineAction(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd, action)
	},
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe FILE",
	Short: "Transcribe an audio recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening audio: %w", err)
		}
		defer f.Close()
		text, err := newClient().transcribe(cmd.Context(), filepath.Base(args[0]), f)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print a bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().login(cmd.Context(), loginUser, loginPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Logged in as %s. export TODO_TOKEN=<token>\n", resp.User.Name)
		fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
		return nil
	},
}

func init() {
	actionCmd.Flags().StringVar(&actionEmoji, "emoji", "", "emoji the user picked")
	actionCmd.Flags().StringVar(&actionTodos, "todos", "", "JSON file with the current todo list")

	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(actionCmd, transcribeCmd, loginCmd)
}

func newClient() *client { return newHTTPClient(serverURL, token) }

func readTodos(path string) ([]model.TodoItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading todos: %w", err)
	}
	var todos []model.TodoItem
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("parsing todos: %w", err)
	}
	if todos == nil {
		todos = []model.TodoItem{}
	}
	return todos, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
