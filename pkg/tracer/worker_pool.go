package tracer

import (
	"runtime"
	"sync"

	"github.com/df07/go-bending-light/pkg/light"
)

// rayTask is one initial ray to propagate
type rayTask struct {
	TaskID int // Position of the ray among the initial rays, for deterministic ordering
	Ray    light.ColoredRay
}

// rayResult holds everything one initial ray produced
type rayResult struct {
	TaskID int
	Out    *collector
}

// workerPool propagates initial rays in parallel. Each task writes to its own
// collector, so workers share nothing but the read-only scene.
type workerPool struct {
	taskQueue   chan rayTask
	resultQueue chan rayResult
	numWorkers  int
	wg          sync.WaitGroup
}

// newWorkerPool creates a pool sized for numTasks tasks
func newWorkerPool(numWorkers, numTasks int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > numTasks {
		numWorkers = numTasks
	}
	return &workerPool{
		taskQueue:   make(chan rayTask, numTasks),
		resultQueue: make(chan rayResult, numTasks),
		numWorkers:  numWorkers,
	}
}

// start launches the workers; trace is called once per task
func (wp *workerPool) start(trace func(ray light.ColoredRay, out *collector)) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			for task := range wp.taskQueue {
				out := newCollector()
				trace(task.Ray, out)
				wp.resultQueue <- rayResult{TaskID: task.TaskID, Out: out}
			}
		}()
	}
}

func (wp *workerPool) submit(task rayTask) {
	wp.taskQueue <- task
}

// stop waits for every submitted task to finish
func (wp *workerPool) stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// propagateAll traces every ray and merges the results into out in the order
// the rays were given, regardless of which worker finished first
func propagateAll(rays []light.ColoredRay, numWorkers int, trace func(ray light.ColoredRay, out *collector), out *collector) {
	if numWorkers == 1 || len(rays) <= 1 {
		for _, ray := range rays {
			trace(ray, out)
		}
		return
	}

	wp := newWorkerPool(numWorkers, len(rays))
	wp.start(trace)
	for i, ray := range rays {
		wp.submit(rayTask{TaskID: i, Ray: ray})
	}
	wp.stop()

	results := make([]*collector, len(rays))
	for result := range wp.resultQueue {
		results[result.TaskID] = result.Out
	}
	for _, result := range results {
		out.merge(result)
	}
}
