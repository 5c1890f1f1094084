package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/torresjeff/flv"
	"github.com/torresjeff/flv/amf/amf0"
	"go.uber.org/zap"
)

var debugCommand = &command{
	usage: "debug [--strict] [--quiet] [--metadata] [--format text|yaml] FILE...",
	flags: func(fs *pflag.FlagSet) {
		fs.BoolP("quiet", "q", false, "only validate, print nothing")
		fs.BoolP("metadata", "m", false, "print the onMetaData values instead of the tags")
		fs.String("format", "text", "metadata output format: text or yaml")
	},
	run: runDebug,
}

func runDebug(e *env, fs *pflag.FlagSet, args []string) error {
	metadata, _ := fs.GetBool("metadata")
	format, _ := fs.GetString("format")
	if len(args) == 0 {
		return usagef("no input files")
	}
	if format != "text" && format != "yaml" {
		return usagef("unknown format %q", format)
	}

	failed := 0
	for _, path := range args {
		if err := debugFile(e, path, metadata, format); err != nil {
			e.logger.Error(fmt.Sprint("[debug] Failed to parse ", path), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d files failed to parse", failed, len(args))
	}
	return nil
}

func debugFile(e *env, path string, metadata bool, format string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := flv.NewReader(f, flv.Options{Strict: e.conf.Strict, Logger: e.logger})
	if err != nil {
		return err
	}

	out := e.stdout
	if e.conf.Quiet {
		out = io.Discard
	}
	if !metadata {
		fmt.Fprintf(out, "=== `%s` ===\n", path)
	}
	return r.Walk(func(tag *flv.Tag) error {
		if !metadata {
			_, err := fmt.Fprintln(out, tag)
			return err
		}
		if !tag.IsMetadata() {
			return nil
		}
		if format == "yaml" {
			return writeYAML(out, path, tag.Script().Value)
		}
		return writeText(out, path, tag.Script().Value)
	})
}

// writeText prints the properties of v in order, one per line.
func writeText(w io.Writer, path string, v amf0.Value) error {
	fmt.Fprintf(w, "=== `%s` ===\n", path)
	props, ok := amf0.Properties(v)
	if !ok {
		_, err := fmt.Fprintf(w, "%# v\n", pretty.Formatter(amf0.ToGo(v)))
		return err
	}
	for _, p := range props {
		if _, err := fmt.Fprintf(w, "%s: %# v\n", p.Key, pretty.Formatter(amf0.ToGo(p.Value))); err != nil {
			return err
		}
	}
	return nil
}
