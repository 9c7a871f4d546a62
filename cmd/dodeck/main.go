// Command dodeck is the terminal client for the DoDeck API.
//
// The API base URL comes from --api or the DODECK_API environment
// variable; a saved token can be restored with --token or DODECK_TOKEN.
// A restore that the server rejects simply lands on the login screen.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/subhrajit77/DoDeck-The-Task-manager/client"
	"github.com/subhrajit77/DoDeck-The-Task-manager/tui"
)

const defaultAPI = "http://localhost:4000/api"

func main() {
	api := pflag.String("api", "", "API base URL (default $DODECK_API or "+defaultAPI+")")
	token := pflag.String("token", "", "bearer token to restore (default $DODECK_TOKEN)")
	pflag.Parse()

	baseURL := *api
	if baseURL == "" {
		baseURL = os.Getenv("DODECK_API")
	}
	if baseURL == "" {
		baseURL = defaultAPI
	}

	session := client.NewSession(baseURL)

	saved := *token
	if saved == "" {
		saved = os.Getenv("DODECK_TOKEN")
	}
	if saved != "" {
		// A stale token is not fatal; the model opens on the login
		// screen when the restore fails.
		_ = session.Restore(saved)
	}

	program := tea.NewProgram(tui.NewModel(session), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "dodeck: %v\n", err)
		os.Exit(1)
	}
}
