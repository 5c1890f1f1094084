// Command flvtool inspects and rewrites FLV files.
//
//	flvtool debug [--strict] [--quiet] [--metadata] [--format text|yaml] FILE...
//	flvtool index [--strict] [-U] [-r|-R] [--jobs N] IN OUT | -U FILE...
//	flvtool retimestamp [--strict] [-U] [-i] [--jobs N] IN OUT | -U FILE...
//	flvtool cut [--strict] [-s START] [-e END] IN OUT
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/torresjeff/flv/config"
	"github.com/torresjeff/flv/internal/logger"
	"github.com/torresjeff/flv/rewrite"
	"go.uber.org/zap"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...interface{}) error {
	return &usageError{fmt.Sprintf(format, args...)}
}

// env is what every command runs with.
type env struct {
	conf   *config.Config
	logger *zap.Logger
	stdout io.Writer
}

func (e *env) rewriteOptions() rewrite.Options {
	return rewrite.Options{
		Strict:           e.conf.Strict,
		Logger:           e.logger,
		Creator:          e.conf.Creator,
		SeekpointDensity: e.conf.SeekpointDensity,
	}
}

type command struct {
	usage string
	flags func(fs *pflag.FlagSet)
	run   func(e *env, fs *pflag.FlagSet, args []string) error
}

var commands = map[string]*command{
	"debug":       debugCommand,
	"index":       indexCommand,
	"retimestamp": retimestampCommand,
	"cut":         cutCommand,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "-h", "--help", "help":
		printUsage(stdout)
		return exitOK
	case "-v", "--version", "version":
		fmt.Fprintln(stdout, "flvtool", config.Version)
		return exitOK
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "flvtool: unknown command %q\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	fs := pflag.NewFlagSet("flvtool "+args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: flvtool %s\n\n", cmd.usage)
		fs.PrintDefaults()
	}
	config.AddFlags(fs)
	cmd.flags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	conf, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(stderr, "flvtool:", err)
		return exitUsage
	}
	log, err := logger.New(conf.Log)
	if err != nil {
		fmt.Fprintln(stderr, "flvtool:", err)
		return exitUsage
	}
	defer log.Sync()
	log.Debug("[flvtool] Effective configuration:\n" + conf.String())

	err = cmd.run(&env{conf: conf, logger: log, stdout: stdout}, fs, fs.Args())
	var uerr *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &uerr):
		fmt.Fprintln(stderr, "flvtool:", err)
		fs.Usage()
		return exitUsage
	default:
		fmt.Fprintln(stderr, "flvtool:", err)
		return exitFail
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: flvtool <command> [flags] FILE...")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, "  flvtool", commands[name].usage)
	}
}
