/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/floorplan/games/floorplan"
	"github.com/spf13/cobra"
)

// terminal presents a quiz on a line-oriented terminal.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out}
}

func (t *terminal) readLine() (string, bool) {
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

// Prompt lists the name pool and blocks until a line is read.
func (t *terminal) Prompt(p floorplan.Prompt) (int, bool) {
	fmt.Fprintf(t.out, "Select room name for room %d:\n\n", p.RoomID)
	for _, c := range p.Choices {
		fmt.Fprintf(t.out, "%d. %s\n", c.Index, c.Name)
	}
	fmt.Fprintf(t.out, "\nEnter the number (1-%d): ", len(p.Choices))

	line, ok := t.readLine()
	if !ok || line == "" {
		return 0, false
	}

	index, err := strconv.Atoi(line)
	if err != nil {
		return 0, false
	}

	return index, true
}

func (t *terminal) render(v floorplan.View) {
	fmt.Fprintf(t.out, "\n%s (%s)\n", v.Title, v.Difficulty)

	for _, r := range v.Rooms {
		switch {
		case v.Revealed:
			mark := "✓"
			if r.Status == floorplan.StatusIncorrect {
				mark = "✗"
			}
			fmt.Fprintf(t.out, "  [%d] %s %s\n", r.ID, mark, r.Answer)
		case r.Label != "":
			fmt.Fprintf(t.out, "  [%d] %s\n", r.ID, r.Label)
		default:
			fmt.Fprintf(t.out, "  [%d] ?\n", r.ID)
		}
	}

	if v.Score != nil {
		fmt.Fprintf(t.out, "\nScore: %d/%d\n", v.Score.Correct, v.Score.Total)
		return
	}

	names := make([]string, len(v.Pool))
	for i, c := range v.Pool {
		names[i] = c.Name
	}
	fmt.Fprintf(t.out, "\nNames: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(t.out, "Answered: %d/%d\n", v.Answered, v.Total)
}

func (t *terminal) help(v floorplan.View) {
	switch {
	case v.Revealed:
		fmt.Fprint(t.out, "\n[r]eset or [q]uit: ")
	case v.CanCheck:
		fmt.Fprint(t.out, "\nRoom number to rename, [c]heck, [r]eset or [q]uit: ")
	default:
		fmt.Fprint(t.out, "\nRoom number to name, [r]eset or [q]uit: ")
	}
}

// play runs the quiz until input ends or the player quits.
func play(cfg *Config, ctrl *floorplan.Controller, t *terminal) error {
	for {
		v := ctrl.View()
		t.render(v)
		t.help(v)

		line, ok := t.readLine()
		if !ok {
			return nil
		}

		switch strings.ToLower(line) {
		case "q", "quit":
			return nil

		case "r", "reset":
			ctrl.Reset()
			logf(cfg, "GAMES: Round %d started", ctrl.Round().Number())

		case "c", "check":
			res, ok := ctrl.Check()
			if !ok {
				continue
			}
			if cfg.feedbackDelay > 0 {
				time.Sleep(cfg.feedbackDelay)
			}
			fmt.Fprintf(t.out, "\n%s\n", res.Tier().Message())

		default:
			roomID, err := strconv.Atoi(line)
			if err != nil || !ctrl.Round().Plan().Has(roomID) {
				continue
			}
			if _, err := ctrl.HandleSelect(roomID, t); err != nil {
				return err
			}
		}
	}
}

func newPlayCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the floor plan quiz in the terminal.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = cfg.log().Sync() }()

			ctrl := floorplan.NewController(floorplan.Apartment(), floorplan.NewShuffler(nil))

			return play(cfg, ctrl, newTerminal(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}
}
