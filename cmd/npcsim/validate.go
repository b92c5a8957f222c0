package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/jakecoffman/cp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/npcbrain/agent"
	"github.com/milk9111/npcbrain/plugin"
	"github.com/milk9111/npcbrain/prefabs"
)

var watchDocs bool

var validateCmd = &cobra.Command{
	Use:   "validate [entity...]",
	Short: "Build every listed agent and report document errors",
	Long: `Builds each entity document, every tree it names and its plugin
components. With no arguments all known entities are validated. --watch
keeps running and re-validates whenever a document under --dir changes.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&watchDocs, "watch", false, "Re-validate on document changes")
}

type validation struct {
	ID  string
	Err error
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loader := documentLoader()
	check := func() error {
		ids := args
		if len(ids) == 0 {
			var err error
			if ids, err = loader.Entities(); err != nil {
				return err
			}
		}
		f, err := newFactory(loader, nil)
		if err != nil {
			return err
		}
		results, err := validateAll(ctx, f, ids)
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), results)
	}

	err := check()
	if !watchDocs {
		return err
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
	return watch(ctx, check)
}

// validateAll builds the agents concurrently. Results keep the order of ids.
func validateAll(ctx context.Context, f *agent.Factory, ids []string) ([]validation, error) {
	results := make([]validation, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = validation{ID: id, Err: validateOne(f, id)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateOne(f *agent.Factory, id string) error {
	host := plugin.NewHost(id)
	plugin.Attach(host, agent.BodyKind, cp.NewKinematicBody())
	a, err := f.Build(id, host)
	if err != nil {
		return err
	}
	return a.Validate()
}

func report(w io.Writer, results []validation) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", r.ID, r.Err)
			continue
		}
		fmt.Fprintf(w, "ok   %s\n", r.ID)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d entities failed validation", failed, len(results))
	}
	return nil
}

func watch(ctx context.Context, check func() error) error {
	var dirs []string
	for _, sub := range []string{"entities", "trees"} {
		dir := filepath.Join(docDir, sub)
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return fmt.Errorf("watch: no entities/ or trees/ under %s", docDir)
	}

	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	logger.Info("watching documents", zap.Strings("dirs", dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			id, tree := prefabs.DocumentID(path)
			logger.Info("document changed", zap.String("id", id), zap.Bool("tree", tree))
			if err := check(); err != nil {
				logger.Warn("validation failed", zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
