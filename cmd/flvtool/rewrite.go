package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/torresjeff/flv/config"
	"github.com/torresjeff/flv/rewrite"
)

func batchFlags(fs *pflag.FlagSet) {
	fs.BoolP("update", "U", false, "update the files instead of writing to an output file")
	fs.Int("jobs", config.DefaultJobs, "number of files processed concurrently with -U")
}

var indexCommand = &command{
	usage: "index [--strict] [-r|-R] IN OUT | -U [--jobs N] FILE...",
	flags: func(fs *pflag.FlagSet) {
		batchFlags(fs)
		fs.BoolP("retimestamp", "r", false, "rebase timestamps to zero before indexing, through a scratch copy")
		fs.BoolP("retimestamp-inplace", "R", false, "rebase timestamps to zero before indexing, in place")
		fs.Int("seekpoint-density", config.DefaultSeekpointDensity, "audio tags per seekpoint in files without video")
		fs.String("creator", config.DefaultCreator, "value stored as metadata_creator")
	},
	run: runIndex,
}

func runIndex(e *env, fs *pflag.FlagSet, args []string) error {
	update, _ := fs.GetBool("update")
	atomic, _ := fs.GetBool("retimestamp")
	inplace, _ := fs.GetBool("retimestamp-inplace")
	if atomic && inplace {
		return usagef("--retimestamp and --retimestamp-inplace are mutually exclusive")
	}
	opts := e.rewriteOptions()
	return rewriteFiles(e, update, args, func(in, out string) error {
		var err error
		switch {
		case atomic:
			err = rewrite.IndexWithRetimestamp(in, out, rewrite.Atomic, opts)
		case inplace:
			err = rewrite.IndexWithRetimestamp(in, out, rewrite.InPlace, opts)
		default:
			err = rewrite.Index(in, out, opts)
		}
		if err == nil {
			e.logger.Info(fmt.Sprint("[index] Indexed ", in))
		}
		return err
	})
}

var retimestampCommand = &command{
	usage: "retimestamp [--strict] IN OUT | -U [-i] [--jobs N] FILE...",
	flags: func(fs *pflag.FlagSet) {
		batchFlags(fs)
		fs.BoolP("inplace", "i", false, "patch the files in place instead of through a scratch copy")
	},
	run: runRetimestamp,
}

func runRetimestamp(e *env, fs *pflag.FlagSet, args []string) error {
	update, _ := fs.GetBool("update")
	inplace, _ := fs.GetBool("inplace")
	if inplace && !update {
		return usagef("--inplace requires --update")
	}
	mode := rewrite.Atomic
	if inplace {
		mode = rewrite.InPlace
	}
	opts := e.rewriteOptions()
	return rewriteFiles(e, update, args, func(in, out string) error {
		err := rewrite.Retimestamp(in, out, mode, opts)
		if err == nil {
			e.logger.Info(fmt.Sprint("[retimestamp] Retimestamped ", in))
		}
		return err
	})
}

var cutCommand = &command{
	usage: "cut [--strict] [-s START] [-e END] IN OUT",
	flags: func(fs *pflag.FlagSet) {
		fs.Int32P("start-time", "s", rewrite.OpenBound, "start of the cut in milliseconds, -1 for the beginning")
		fs.Int32P("end-time", "e", rewrite.OpenBound, "end of the cut in milliseconds, -1 for the end")
	},
	run: runCut,
}

func runCut(e *env, fs *pflag.FlagSet, args []string) error {
	start, _ := fs.GetInt32("start-time")
	end, _ := fs.GetInt32("end-time")
	if len(args) != 2 {
		return usagef("expected an input and an output file")
	}
	if start < rewrite.OpenBound || end < rewrite.OpenBound {
		return usagef("times must be positive, or -1 for an open bound")
	}
	if end != rewrite.OpenBound && end <= start {
		return usagef("end time %d is not after start time %d", end, start)
	}
	if err := rewrite.Cut(args[0], args[1], start, end, e.rewriteOptions()); err != nil {
		return err
	}
	e.logger.Info(fmt.Sprint("[cut] Wrote ", args[1]))
	return nil
}
