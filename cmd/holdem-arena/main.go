// Command holdem-arena runs bot-vs-bot hold'em tournaments from an
// HCL config file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/arena"
	"github.com/lox/holdem-arena/internal/game"
)

var cli struct {
	Config      string `arg:"" help:"Arena config file (HCL)." type:"existingfile"`
	Seed        int64  `help:"Override the config seed."`
	Tournaments int    `default:"1" help:"Number of tournaments to run."`
	Parallel    int    `default:"4" help:"Tournaments to run concurrently."`
	Verbose     bool   `short:"v" help:"Narrate every table event."`
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	winnerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	bustedStyle = lipgloss.NewStyle().Faint(true)
)

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("holdem-arena"),
		kong.Description("Run bot-vs-bot Texas hold'em tournaments."),
	)
	kctx.FatalIfErrorf(run())
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	cfg, err := arena.LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if cli.Seed != 0 {
		cfg.Seed = cli.Seed
	}

	if cli.Tournaments > 1 {
		return runSeries(ctx, cfg, logger)
	}

	opts := []arena.TournamentOption{arena.WithLogger(logger)}
	if cli.Verbose {
		opts = append(opts, arena.WithSink(game.LogSink{Log: logger.WithPrefix("table")}))
	}
	t, err := arena.NewTournament(cfg, opts...)
	if err != nil {
		return err
	}
	res, err := t.Run(ctx)
	if err != nil {
		return err
	}
	printStandings(res)
	return nil
}

func runSeries(ctx context.Context, cfg *arena.Config, logger *log.Logger) error {
	res, err := arena.RunSeries(ctx, cfg, cli.Tournaments, cli.Parallel, logger)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf(
		"championships over %d tournaments (%d hands)",
		res.Tournaments, res.HandsPlayed)))

	names := make([]string, 0, len(res.Championships))
	for name := range res.Championships {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if res.Championships[names[i]] != res.Championships[names[j]] {
			return res.Championships[names[i]] > res.Championships[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Printf("  %-16s %d\n", name, res.Championships[name])
	}
	return nil
}

func printStandings(res *arena.Result) {
	fmt.Println(headerStyle.Render(fmt.Sprintf(
		"final standings after %d hands", res.HandsPlayed)))

	for i, s := range res.Standings {
		row := fmt.Sprintf("%2d. %-16s %6d chips  (%d hands won, %s)",
			i+1, s.Name, s.Chips, s.HandsWon, s.Status)
		switch {
		case i == 0:
			row = winnerStyle.Render(row)
		case s.Chips == 0:
			row = bustedStyle.Render(row)
		}
		fmt.Println(row)
	}
}
