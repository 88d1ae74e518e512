// Command tinyc compiles a single source file to x86-64 assembly text,
// printing the result to stdout (or to the file named by -o). Given a
// directory instead (-batch), it compiles every *.tc file inside it
// concurrently and writes a sibling .s file next to each.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"tinyc/internal/batch"
	"tinyc/internal/driver"
)

func main() {
	var (
		output  string
		tracing bool
		dir     string
		workers int
	)
	flag.StringVar(&output, "o", "", "write assembly to this file instead of stdout")
	flag.BoolVar(&tracing, "trace", false, "print every compilation pass's intermediate form to stderr")
	flag.StringVar(&dir, "batch", "", "compile every *.tc file in this directory concurrently")
	flag.IntVar(&workers, "workers", 4, "worker pool size for -batch")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tinyc [-o out.s] [-trace] <source.tc>")
		fmt.Fprintln(os.Stderr, "       tinyc -batch <dir> [-workers N]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if dir != "" {
		runBatch(dir, workers)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fail(err)
	}

	opts := driver.Options{}
	if tracing {
		opts.Trace = os.Stderr
	}

	asm, err := driver.Run(path, string(src), opts)
	if err != nil {
		fail(err)
	}

	if output == "" {
		fmt.Println(asm)
		return
	}
	if err := os.WriteFile(output, []byte(asm), 0o644); err != nil {
		fail(err)
	}
}

func runBatch(dir string, workers int) {
	results, err := batch.CompileDir(dir, workers)
	if err != nil {
		fail(err)
	}

	failed := false
	for _, r := range results {
		if r.Err != nil {
			color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "tinyc: %s: %s\n", r.Job.Path, r.Err)
			failed = true
			continue
		}
		out := strings.TrimSuffix(r.Job.Path, ".tc") + ".s"
		if err := os.WriteFile(out, []byte(r.Assembly), 0o644); err != nil {
			color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "tinyc: %s: %s\n", out, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func fail(err error) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "tinyc: %s\n", err)
	os.Exit(1)
}
