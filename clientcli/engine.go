package clientcli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/tollgate/tollgate"
)

// Status is an upload task's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusPaused    Status = "paused"
)

// task fields are guarded by the engine mutex; callers observe tasks
// through TaskInfo snapshots.
type task struct {
	id          uuid.UUID
	key         string
	localPath   string
	size        int64
	contentType string

	status   Status
	progress float64
	speed    float64
	message  string

	wantPause bool
	removed   bool
	cancel    context.CancelFunc
}

// TaskInfo is a read-only snapshot of one upload task.
type TaskInfo struct {
	ID        uuid.UUID
	Key       string
	LocalPath string
	Size      int64
	Status    Status
	Progress  float64 // 0..100
	Speed     float64 // bytes per second
	Message   string  // failure message when Status is error
}

// Engine schedules file uploads against a gateway. At most one task
// transfers at a time; remaining work queues in arrival order. Files below
// the multipart threshold go up as one tokenized direct write; larger files
// are split into fixed-size parts, each signed and transferred sequentially,
// then completed from the collected integrity tags.
//
// Pausing aborts the in-flight transfer and parks the task; resuming
// re-enters the queue and restarts the whole transfer from the first byte,
// including a fresh multipart session. No part bookkeeping survives a pause.
type Engine struct {
	client    *Client
	threshold int64
	partSize  int64

	mu    sync.Mutex
	tasks []*task

	wake    chan struct{}
	changed chan struct{}
	stop    chan struct{}
	stopped chan struct{}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithThreshold overrides the direct-write size cutoff.
func WithThreshold(threshold int64) EngineOption {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// WithPartSize overrides the multipart chunk size.
func WithPartSize(partSize int64) EngineOption {
	return func(e *Engine) {
		e.partSize = partSize
	}
}

// NewEngine creates an Engine and starts its worker.
func NewEngine(client *Client, opts ...EngineOption) *Engine {
	e := &Engine{
		client:    client,
		threshold: tollgate.MultipartThreshold,
		partSize:  tollgate.PartSize,
		wake:      make(chan struct{}, 1),
		changed:   make(chan struct{}, 1),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	go e.run()
	return e
}

// Close aborts any in-flight transfer and stops the worker. Interrupted
// tasks park as paused.
func (e *Engine) Close() {
	e.mu.Lock()
	for _, t := range e.tasks {
		if t.status == StatusUploading && t.cancel != nil {
			t.wantPause = true
			t.cancel()
		}
	}
	e.mu.Unlock()

	close(e.stop)
	<-e.stopped
}

// Enqueue adds a file upload and returns its task id. An empty key derives
// one from the local path.
func (e *Engine) Enqueue(localPath, key string) (uuid.UUID, error) {
	if localPath == "" {
		return uuid.Nil, ErrEmptyPath
	}
	info, err := os.Stat(localPath)
	if err != nil {
		return uuid.Nil, fmt.Errorf("stat file: %w", err)
	}
	if key == "" {
		key = NormalizeKey(localPath)
	}
	if key == "" {
		return uuid.Nil, ErrEmptyKey
	}

	t := &task{
		id:          uuid.New(),
		key:         key,
		localPath:   localPath,
		size:        info.Size(),
		contentType: detectContentType(localPath),
		status:      StatusPending,
	}

	e.mu.Lock()
	e.tasks = append(e.tasks, t)
	e.mu.Unlock()

	e.notify(true)
	return t.id, nil
}

// Pause stops a task. An in-flight transfer is aborted; a queued task is
// parked directly.
func (e *Engine) Pause(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.find(id)
	if t == nil {
		return ErrTaskNotFound
	}
	switch t.status {
	case StatusUploading:
		t.wantPause = true
		if t.cancel != nil {
			t.cancel()
		}
	case StatusPending:
		t.status = StatusPaused
	}
	return nil
}

// Resume re-queues a paused task. The transfer restarts from the beginning.
func (e *Engine) Resume(id uuid.UUID) error {
	return e.requeue(id, StatusPaused)
}

// Retry re-queues a failed task.
func (e *Engine) Retry(id uuid.UUID) error {
	return e.requeue(id, StatusError)
}

func (e *Engine) requeue(id uuid.UUID, from Status) error {
	e.mu.Lock()
	t := e.find(id)
	if t == nil {
		e.mu.Unlock()
		return ErrTaskNotFound
	}
	if t.status == from {
		t.status = StatusPending
		t.progress = 0
		t.speed = 0
		t.message = ""
	}
	e.mu.Unlock()

	e.notify(true)
	return nil
}

// Cancel aborts any in-flight transfer for the task and removes it from the
// queue. A server-side multipart session, if one was opened, is left for the
// store's lifecycle policy; the engine never aborts it on the server.
func (e *Engine) Cancel(id uuid.UUID) error {
	e.mu.Lock()
	t := e.find(id)
	if t == nil {
		e.mu.Unlock()
		return ErrTaskNotFound
	}
	t.removed = true
	if t.status == StatusUploading && t.cancel != nil {
		t.cancel()
	}
	for i := range e.tasks {
		if e.tasks[i] == t {
			e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	e.notify(false)
	return nil
}

// Tasks returns a snapshot of all tasks in arrival order.
func (e *Engine) Tasks() []TaskInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	infos := make([]TaskInfo, len(e.tasks))
	for i, t := range e.tasks {
		infos[i] = TaskInfo{
			ID:        t.id,
			Key:       t.key,
			LocalPath: t.localPath,
			Size:      t.size,
			Status:    t.status,
			Progress:  t.progress,
			Speed:     t.speed,
			Message:   t.message,
		}
	}
	return infos
}

// Task returns a snapshot of one task.
func (e *Engine) Task(id uuid.UUID) (TaskInfo, bool) {
	for _, info := range e.Tasks() {
		if info.ID == id {
			return info, true
		}
	}
	return TaskInfo{}, false
}

// Wait blocks until no task is pending or uploading, or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	for {
		if e.idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.changed:
		}
	}
}

func (e *Engine) idle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tasks {
		if t.status == StatusPending || t.status == StatusUploading {
			return false
		}
	}
	return true
}

func (e *Engine) find(id uuid.UUID) *task {
	for _, t := range e.tasks {
		if t.id == id {
			return t
		}
	}
	return nil
}

// notify signals waiters and, for queue-affecting changes, the worker.
func (e *Engine) notify(wakeWorker bool) {
	select {
	case e.changed <- struct{}{}:
	default:
	}
	if wakeWorker {
		select {
		case e.wake <- struct{}{}:
		default:
		}
	}
}

// run is the worker loop: one consumer, one concurrency slot.
func (e *Engine) run() {
	defer close(e.stopped)
	for {
		t, ctx := e.next()
		if t == nil {
			select {
			case <-e.wake:
				continue
			case <-e.stop:
				return
			}
		}

		err := e.execute(ctx, t)
		e.finish(t, err)

		select {
		case <-e.stop:
			return
		default:
		}
	}
}

// next claims the oldest pending task, moving it to uploading.
func (e *Engine) next() (*task, context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, t := range e.tasks {
		if t.status == StatusPending {
			t.status = StatusUploading
			ctx, cancel := context.WithCancel(context.Background())
			t.cancel = cancel
			return t, ctx
		}
	}
	return nil, nil
}

func (e *Engine) finish(t *task, err error) {
	e.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}

	switch {
	case t.removed:
		// Cancelled mid-flight; already out of the queue.
	case t.wantPause:
		// A deliberate pause is never reported as a failure, even when the
		// abort surfaced as some other transfer error.
		t.wantPause = false
		t.status = StatusPaused
		t.speed = 0
	case err == nil:
		t.status = StatusSuccess
		t.progress = 100
		t.speed = 0
	case IsAborted(err):
		t.status = StatusPaused
		t.speed = 0
	default:
		t.status = StatusError
		t.message = err.Error()
		t.speed = 0
	}
	e.mu.Unlock()

	e.notify(false)
}

// execute transfers one task: a single tokenized write below the threshold,
// the sign-part/put/complete sequence above it. Parts go up strictly
// sequentially.
func (e *Engine) execute(ctx context.Context, t *task) error {
	file, err := os.Open(t.localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	tracker := newSpeedTracker()

	if t.size < e.threshold {
		target, err := e.client.SignUpload(ctx, t.key, t.contentType)
		if err != nil {
			return err
		}
		_, err = e.client.PutBytes(ctx, target, t.contentType, t.size, file, func(loaded int64) {
			e.recordProgress(t, tracker, loaded)
		})
		return err
	}

	uploadID, err := e.client.MultipartCreate(ctx, t.key, t.contentType)
	if err != nil {
		return err
	}

	partCount := int((t.size + e.partSize - 1) / e.partSize)
	parts := make([]tollgate.Part, 0, partCount)
	for n := 1; n <= partCount; n++ {
		offset := int64(n-1) * e.partSize
		length := min(t.size-offset, e.partSize)

		target, err := e.client.MultipartSignPart(ctx, t.key, uploadID, n)
		if err != nil {
			return err
		}

		section := io.NewSectionReader(file, offset, length)
		etag, err := e.client.PutBytes(ctx, target, "", length, section, func(loaded int64) {
			e.recordProgress(t, tracker, offset+loaded)
		})
		if err != nil {
			return err
		}
		parts = append(parts, tollgate.Part{PartNumber: n, ETag: etag})
	}

	return e.client.MultipartComplete(ctx, t.key, uploadID, parts)
}

func (e *Engine) recordProgress(t *task, tracker *speedTracker, loaded int64) {
	speed := tracker.update(loaded)

	e.mu.Lock()
	if t.size > 0 {
		t.progress = float64(loaded) / float64(t.size) * 100
	}
	t.speed = speed
	e.mu.Unlock()

	e.notify(false)
}
