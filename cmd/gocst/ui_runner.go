package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gocst/internal/driver"
	"gocst/internal/source"
	"gocst/internal/ui"
)

type parseDirOutcome struct {
	fileSet *source.FileSet
	results []*driver.ParseResult
	err     error
}

// runParseDirWithUI runs driver.ParseDir while a progress view consumes its
// events. Quitting the view early cancels the run.
func runParseDirWithUI(ctx context.Context, dir string, opts driver.Options) (*source.FileSet, []*driver.ParseResult, error) {
	files, err := driver.ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan parseDirOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = events
		fs, results, err := driver.ParseDir(ctx, dir, runOpts)
		outcomeCh <- parseDirOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("parsing "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()

	// после выхода из UI воркеры всё ещё пишут в канал
	cancel()
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
