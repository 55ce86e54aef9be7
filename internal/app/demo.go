package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/andpalmier/fyi/internal/msg"
	"github.com/andpalmier/fyi/internal/runner"
	"golang.org/x/sync/errgroup"
)

// DemoConfig configures the progress demo
type DemoConfig struct {
	Config

	// YearRate is how long one year of an empire's lifetime lasts
	YearRate time.Duration

	// Numbers is the size of the second phase
	Numbers int
}

// empire is a simulated task whose duration scales with how long it lasted.
type empire struct {
	name  string
	years int
}

var empires = []empire{
	{"Elamite Empire", 2500},
	{"Akkadian Empire", 100},
	{"Assyria", 1119},
	{"Babylonian Empire", 300},
	{"Egyptian Empire", 473},
	{"Hittite Empire", 280},
	{"Zhou dynasty", 794},
	{"Carthaginian Empire", 504},
	{"Achaemenid Empire", 220},
	{"Macedonian Empire", 11},
	{"Mauryan Empire", 136},
	{"Seleucid Empire", 249},
	{"Parthian Empire", 471},
	{"Qin dynasty", 15},
	{"Han dynasty", 426},
	{"Roman Empire", 1480},
	{"Goguryeo", 705},
	{"Kushan Empire", 315},
	{"Aksumite Empire", 790},
	{"Sassanid dynasty", 427},
	{"Palmyrene Empire", 3},
	{"Byzantine Empire", 1176},
	{"Gupta Empire", 230},
	{"Hunnic Empire", 99},
	{"Tang dynasty", 289},
	{"Umayyad Caliphate", 89},
	{"Srivijaya Empire", 610},
	{"Republic of Venice", 1100},
	{"Abbasid Caliphate", 508},
	{"Khmer Empire", 629},
	{"Holy Roman Empire", 844},
	{"Mongol Empire", 162},
	{"Mali Empire", 375},
	{"Golden Horde", 260},
	{"Ottoman Empire", 623},
	{"Inca Empire", 95},
	{"Mughal Empire", 331},
}

// Demo runs two simulated batches of parallel work under one progress bar:
// a list of empires, each taking time in proportion to its lifetime, then a
// quick run of numbers after a reset.
func Demo(ctx context.Context, cfg DemoConfig) error {
	cfg.setDefaults()
	if cfg.YearRate <= 0 {
		cfg.YearRate = 1500 * time.Microsecond
	}
	if cfg.Numbers <= 0 {
		cfg.Numbers = 500
	}

	printHeader(cfg.Config, "demo", [][2]string{
		{"Empires", strconv.Itoa(len(empires))},
		{"Numbers", strconv.Itoa(cfg.Numbers)},
		{"Workers", strconv.Itoa(cfg.Workers)},
	})

	bar, err := startBar(cfg.Config, len(empires), nil)
	if err != nil {
		return err
	}
	defer stopBar(cfg.Config, bar)

	if bar != nil {
		bar.SetReticulatingSplines("fyi")
	}

	jobs := make([]runner.Job, len(empires))
	for i, e := range empires {
		jobs[i] = runner.Job{
			Name: e.name,
			Run: func(ctx context.Context) error {
				if err := sleep(ctx, time.Duration(e.years)*cfg.YearRate); err != nil {
					return err
				}
				if e.years > 1000 {
					say(cfg.Config, bar, msg.New(msg.Notice,
						fmt.Sprintf("The %s lasted %d years.", e.name, e.years)))
				}
				return nil
			},
		}
	}

	results, err := runner.New(tracker(bar), runner.Config{
		Workers: cfg.Workers,
		Logger:  cfg.Logger,
	}).Run(ctx, jobs)
	if err != nil {
		printFailures(cfg.Config, results)
		return err
	}

	if bar == nil {
		_ = msg.New(msg.Crunched, fmt.Sprintf("%d empires.", len(empires))).
			WithNewline(true).Print(cfg.Stderr)
		return countNumbers(ctx, cfg, nil)
	}

	bar.Finish()
	_ = bar.Summary(msg.Crunched, "empire", "empires").Print(cfg.Stderr)

	if err := bar.TryReset(cfg.Numbers); err != nil {
		return err
	}
	title := msg.New(msg.Info, "Counting numbers…")
	bar.SetTitle(&title)

	if err := countNumbers(ctx, cfg, bar); err != nil {
		return err
	}

	bar.Finish()
	return bar.Message().Print(cfg.Stderr)
}

// tasker is the part of the bar countNumbers uses.
type tasker interface {
	Do(text string, fn func() error) error
}

// countNumbers is the second demo phase: a fixed number of tiny tasks fanned
// out over an errgroup.
func countNumbers(ctx context.Context, cfg DemoConfig, bar tasker) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))

	for i := range cfg.Numbers {
		g.Go(func() error {
			work := func() error {
				return sleep(ctx, time.Duration(i%7+1)*cfg.YearRate*5)
			}
			if bar == nil {
				return work()
			}
			return bar.Do("number "+strconv.Itoa(i), work)
		})
	}

	return g.Wait()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
