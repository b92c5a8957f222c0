package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/jakecoffman/cp"
	gobt "github.com/joeycumines/go-behaviortree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milk9111/npcbrain/ecs"
	"github.com/milk9111/npcbrain/ecs/entity"
	"github.com/milk9111/npcbrain/ecs/system"
	"github.com/milk9111/npcbrain/persona"
	"github.com/milk9111/npcbrain/prefabs"
	"github.com/milk9111/npcbrain/timer"
)

type simConfig struct {
	Entity        string
	Frames        int
	DT            float64
	HostileThreat float64
	HostileAt     cp.Vector
	HostileFrame  int
	Realtime      bool
}

var simFlags = simConfig{}

var runCmd = &cobra.Command{
	Use:   "run <entity>",
	Short: "Run one agent headless and print what it does",
	Long: `Builds the agent at the origin of an empty world and steps it for
--frames frames of --dt seconds. A positive --hostile-threat spawns a hostile
of that gain at --hostile-x on frame --hostile-frame.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg := simFlags
		cfg.Entity = args[0]
		_, err := simulate(ctx, documentLoader(), cfg, cmd.OutOrStdout())
		return err
	},
}

func init() {
	runCmd.Flags().IntVar(&simFlags.Frames, "frames", 120, "Number of frames to simulate")
	runCmd.Flags().Float64Var(&simFlags.DT, "dt", 1.0/30, "Seconds per frame")
	runCmd.Flags().Float64Var(&simFlags.HostileThreat, "hostile-threat", 0, "Gain of a hostile to spawn, 0 for none")
	runCmd.Flags().Float64Var(&simFlags.HostileAt.X, "hostile-x", 2, "X position of the hostile")
	runCmd.Flags().IntVar(&simFlags.HostileFrame, "hostile-frame", 1, "Frame on which the hostile appears")
	runCmd.Flags().BoolVar(&simFlags.Realtime, "realtime", false, "Pace frames on the wall clock instead of stepping as fast as possible")
}

// simResult summarizes a finished run.
type simResult struct {
	Frames   int
	Tree     string
	Position cp.Vector
	Switches []persona.SwitchEvent
	Timings  []ecs.SystemTiming
}

var errFramesDone = errors.New("frames done")

func simulate(ctx context.Context, loader prefabs.Loader, cfg simConfig, out io.Writer) (simResult, error) {
	if cfg.Frames <= 0 {
		return simResult{}, fmt.Errorf("run: frames must be positive, got %d", cfg.Frames)
	}
	if cfg.DT <= 0 {
		return simResult{}, fmt.Errorf("run: dt must be positive, got %v", cfg.DT)
	}
	log := logger
	if log == nil {
		log = zap.NewNop()
	}

	clock := timer.NewManualClock(time.Unix(0, 0))
	f, err := newFactory(loader, clock)
	if err != nil {
		return simResult{}, err
	}
	w := ecs.NewWorld(clock)
	e, a, err := entity.BuildAgent(w, f, cfg.Entity, cp.Vector{})
	if err != nil {
		return simResult{}, err
	}
	sched := system.NewSchedule(log)
	fmt.Fprintf(out, "%s: %s tree %q\n", e, cfg.Entity, a.TreeKey())

	var res simResult
	step := func() error {
		if res.Frames >= cfg.Frames {
			return errFramesDone
		}
		if cfg.HostileThreat > 0 && res.Frames+1 == cfg.HostileFrame {
			h, err := entity.BuildHostile(w, cfg.HostileAt, cfg.HostileThreat)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "frame %d: hostile %s at (%.2f, %.2f)\n", res.Frames+1, h, cfg.HostileAt.X, cfg.HostileAt.Y)
		}
		w.Step(sched, cfg.DT)
		clock.Advance(timer.Seconds(cfg.DT))
		res.Frames++
		for _, ev := range w.Events().Drain() {
			if sw, ok := ev.Data.(persona.SwitchEvent); ok && ev.Type == ecs.EventTreeSwitched {
				res.Switches = append(res.Switches, sw)
			}
			printEvent(out, ev)
		}
		return nil
	}

	if cfg.Realtime {
		err = runRealtime(ctx, time.Duration(cfg.DT*float64(time.Second)), step)
	} else {
		for err == nil {
			if ctx.Err() != nil {
				break
			}
			err = step()
		}
	}
	if err != nil && !errors.Is(err, errFramesDone) {
		return res, err
	}

	res.Tree = a.TreeKey()
	res.Timings = sched.Timings()
	if pos, ok := a.Blackboard.Position(); ok {
		res.Position = pos
	}
	fmt.Fprintf(out, "done after %d frames: tree %q at (%.2f, %.2f)\n", res.Frames, res.Tree, res.Position.X, res.Position.Y)
	return res, nil
}

// runRealtime paces step on a go-behaviortree ticker until step errors or
// ctx ends.
func runRealtime(ctx context.Context, every time.Duration, step func() error) error {
	ticker := gobt.NewTicker(ctx, every, gobt.New(func([]gobt.Node) (gobt.Status, error) {
		if err := step(); err != nil {
			return gobt.Failure, err
		}
		return gobt.Running, nil
	}))
	<-ticker.Done()
	if err := ticker.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printEvent(out io.Writer, ev ecs.Event) {
	switch data := ev.Data.(type) {
	case persona.SwitchEvent:
		fmt.Fprintf(out, "frame %d: %s switched %s -> %s (stimulus %.2f)\n", ev.Frame, ev.Entity, data.From, data.To, data.Stimulus)
	case system.StatusChange:
		fmt.Fprintf(out, "frame %d: %s %s %s -> %s\n", ev.Frame, ev.Entity, data.Tree, data.From, data.To)
	default:
		fmt.Fprintf(out, "frame %d: %s %s %v\n", ev.Frame, ev.Entity, ev.Type, ev.Data)
	}
}
