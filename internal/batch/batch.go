// Package batch compiles every source file in a directory concurrently
// through a small fixed-size worker pool, for use by a CLI that hands it
// more than one input file at once.
package batch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sasha-s/go-deadlock"
	"github.com/segmentio/ksuid"

	"tinyc/internal/driver"
)

// Job is one source file queued for compilation.
type Job struct {
	ID   string // ksuid, for correlating a result back to a log line
	Path string
}

// Result is a Job's outcome: either Assembly is populated or Err is non-nil.
type Result struct {
	Job      Job
	Assembly string
	Err      error
}

// CompileDir compiles every *.tc file directly under dir using workers
// concurrent goroutines, and returns one Result per file, in no particular
// order. workers <= 0 is treated as 1.
func CompileDir(dir string, workers int) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".tc" {
			continue
		}
		jobs = append(jobs, Job{ID: ksuid.New().String(), Path: filepath.Join(dir, e.Name())})
	}
	return Run(jobs, workers), nil
}

// Run compiles jobs through a bounded worker pool. Workers take jobs from a
// buffered channel; the shared result slice is guarded by a deadlock.Mutex
// rather than sync.Mutex so a future
// deadlock introduced by a careless extension (e.g. a worker waiting on
// another worker's result) is reported instead of hanging silently.
func Run(jobs []Job, workers int) []Result {
	if workers <= 0 {
		workers = 1
	}

	var mu deadlock.Mutex
	results := make([]Result, 0, len(jobs))
	queue := make(chan Job, len(jobs))
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				res := compileOne(job)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return results
}

func compileOne(job Job) Result {
	src, err := os.ReadFile(job.Path)
	if err != nil {
		return Result{Job: job, Err: err}
	}
	asm, err := driver.Run(job.Path, string(src), driver.Options{})
	return Result{Job: job, Assembly: asm, Err: err}
}
