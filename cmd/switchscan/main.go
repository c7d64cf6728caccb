// cmd/switchscan/main.go
//
// This is the entry point for the switchscan simulator.
//
// Flow:
// 1. Handle the validate-rules subcommand, if given
// 2. Initialize the .switchscan folder in the project directory
// 3. Build the navigation tree over the fixture and launch the TUI
// 4. Optionally accept presses from switch hardware over the HTTP bridge

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/switchscan/internal/config"
	"github.com/kingrea/switchscan/internal/logging"
	"github.com/kingrea/switchscan/internal/switchbridge"
	"github.com/kingrea/switchscan/internal/tui"
)

func main() {
	if handleValidateRulesCommand(os.Args[1:]) {
		return
	}

	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	dump := flag.Bool("dump", false, "print the desktop navigation tree and exit")
	flag.Parse()

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}
	if err := config.InitDir(absoluteProject); err != nil {
		die("init %s: %v", config.StateDir, err)
	}

	logger, err := logging.New(absoluteProject)
	if err != nil {
		die("open log: %v", err)
	}
	defer logger.Close()

	app, err := tui.NewApp(absoluteProject, tui.WithLogger(logger))
	if err != nil {
		die("start simulator: %v", err)
	}
	if *dump {
		fmt.Print(app.DebugTree())
		return
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	bridge := switchbridge.NewServer(
		switchbridge.SettingsFromConfig(app.Config()),
		switchbridge.WithLogger(logger),
		switchbridge.WithHandler(switchbridge.PressHandlerFunc(func(press switchbridge.Press) error {
			p.Send(tui.SwitchMsg{Switch: press.Switch})
			return nil
		})),
	)
	if err := bridge.Start(context.Background()); err != nil && !errors.Is(err, switchbridge.ErrDisabled) {
		die("start switch bridge: %v", err)
	}
	defer bridge.Shutdown(context.Background())

	if _, err := p.Run(); err != nil {
		logger.Printf("tui exited: %v", err)
		die("run TUI: %v", err)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
