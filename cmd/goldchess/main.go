// Package main runs a gold economy chess game in the terminal, both sides
// sharing one keyboard.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/benbeisheim/goldchess-backend/internal/cli"
)

type Config struct {
	TimeControl string
	HistoryFile string
	NoColor     bool
	Dev         bool
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.TimeControl, "time-control", "", `Time control ("1 min", "3|2", "5 min", "10 min", "15|10"), empty for an untimed game`)
	flag.StringVar(&cfg.HistoryFile, "history", ".goldchess_history", "Readline history file, empty to disable")
	flag.BoolVar(&cfg.NoColor, "no-color", false, "Disable coloured output")
	flag.BoolVar(&cfg.Dev, "dev", false, "Debug logging to stderr")
	flag.Parse()
	return cfg
}

func newLogger(dev bool) (*zap.Logger, error) {
	if !dev {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func main() {
	cfg := parseFlags()

	log, err := newLogger(cfg.Dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	useColor := !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd()))
	color.NoColor = !useColor

	host, err := cli.NewHost(cli.HostConfig{TimeControl: cfg.TimeControl, Color: useColor}, os.Stdout, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          host.Prompt(),
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		os.Exit(1)
	}
	defer rl.Close()

	color.Cyan("Gold Chess")
	fmt.Println("Type 'help' for commands")
	fmt.Println()
	host.Render()

	for {
		rl.SetPrompt(host.Prompt())

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, err := cli.Parse(line)
		if err != nil {
			fmt.Println(color.RedString(err.Error()))
			continue
		}
		quit, err := host.Execute(cmd)
		if err != nil {
			fmt.Println(color.RedString(err.Error()))
			continue
		}
		if quit {
			break
		}
	}
}
