package main

import (
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// forEach calls fn for every file with at most jobs calls running at once.
// A failure does not stop the other files; all failures are combined.
func forEach(jobs int, files []string, fn func(path string) error) error {
	errs := make([]error, len(files))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			errs[i] = fn(path)
			return nil
		})
	}
	_ = g.Wait()
	return multierr.Combine(errs...)
}

// rewriteFiles runs fn either on every file of args, updating them, or on
// a single input and output pair.
func rewriteFiles(e *env, update bool, args []string, fn func(in, out string) error) error {
	if update {
		if len(args) == 0 {
			return usagef("no input files")
		}
		return forEach(e.conf.Jobs, args, func(path string) error {
			return fn(path, "")
		})
	}
	if len(args) != 2 {
		return usagef("expected an input and an output file, or -U with the files to update")
	}
	return fn(args[0], args[1])
}
