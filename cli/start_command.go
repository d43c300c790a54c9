package main

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"solder/api"
	"solder/common"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// openURL opens the specified URL in the default browser of the user.
func openURL(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", "", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default:
		if isWSL() {
			cmd = "cmd.exe"
			args = []string{"/c", "start", "", url}
		} else {
			cmd = "xdg-open"
			args = []string{url}
		}
	}
	return exec.Command(cmd, args...).Start()
}

// isWSL checks if the program is running inside Windows Subsystem for Linux
func isWSL() bool {
	releaseData, err := exec.Command("uname", "-r").Output()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(releaseData)), "microsoft")
}

func checkServerStatus() bool {
	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/v1/projects", common.GetServerPort()))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// waitForServer polls the server until it responds or the timeout elapses
func waitForServer(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if checkServerStatus() {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

func NewStartCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Start the solder server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "no-open",
				Aliases: []string{"x"},
				Usage:   "Disable automatic browser opening",
			},
		},
		Action: handleStartCommand,
	}
}

func handleStartCommand(cliCtx context.Context, cmd *cli.Command) error {
	noOpen := cmd.Bool("no-open")

	ctx, cancel := signal.NotifyContext(cliCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info().Msg("Starting server...")
	srv := api.RunServer()

	url := fmt.Sprintf("http://localhost:%d", common.GetServerPort())
	if waitForServer(5 * time.Second) {
		fmt.Printf("solder %s listening at %s\n", version, url)
		if !noOpen {
			log.Info().Msgf("Opening %s in default browser...", url)
			if err := openURL(url); err != nil {
				log.Error().Err(err).Msg("Failed to open URL in browser")
			}
		}
	} else {
		log.Error().Msg("Server did not become ready in time")
	}

	<-ctx.Done()
	log.Info().Msg("Stopping server...")
	return srv.Shutdown(context.Background())
}
