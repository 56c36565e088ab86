package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/screenwipe/engine/core"
)

/** @brief A unit of work run by the job system. */
type JobTask struct {
	Name string
	Run  func() error
	// Called on a worker after Run succeeds.
	OnComplete func()
	// Called on a worker after Run fails.
	OnFailure func(err error)
	// Called on a worker after either of the above.
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
	closed     bool
	mutex      sync.Mutex
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = fmt.Errorf("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				if err := job.Run(); err != nil {
					core.LogError("job '%s' failed: %s", job.Name, err)
					if job.OnFailure != nil {
						job.OnFailure(err)
					}
				} else if job.OnComplete != nil {
					job.OnComplete()
				}

				if job.OnCompletionCallback != nil {
					job.OnCompletionCallback()
				}
			}
		}()
	}
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.closed = true
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while the queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}

// RunAll submits every task and waits for all of them. The failures are joined.
func (js *JobSystem) RunAll(tasks ...JobTask) error {
	var (
		wg    sync.WaitGroup
		mutex sync.Mutex
		errs  error
	)
	for _, task := range tasks {
		onFailure := task.OnFailure
		task.OnFailure = func(err error) {
			mutex.Lock()
			errs = errors.Join(errs, fmt.Errorf("%s: %w", task.Name, err))
			mutex.Unlock()
			if onFailure != nil {
				onFailure(err)
			}
		}
		done := task.OnCompletionCallback
		task.OnCompletionCallback = func() {
			if done != nil {
				done()
			}
			wg.Done()
		}
		wg.Add(1)
		if err := js.Submit(task); err != nil {
			wg.Done()
			wg.Wait()
			return errors.Join(errs, err)
		}
	}
	wg.Wait()
	return errs
}
