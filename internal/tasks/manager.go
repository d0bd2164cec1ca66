package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jarv/ytgoat/internal/logging"
)

const (
	// DefaultWorkers is the pool size used by the TUI
	DefaultWorkers = 2
	queueSize      = 100
)

// DefaultManager runs backend commands and channel imports on a fixed pool
// of workers. Tasks stay listed after they finish until removed.
type DefaultManager struct {
	maxWorkers int
	tasks      map[string]*Task
	taskQueue  chan *Task
	handlers   map[TaskType]TaskHandler
	events     chan TaskEvent
	workers    []*worker
	mutex      sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	running    bool
}

// worker pulls tasks off the shared queue
type worker struct {
	id      int
	manager *DefaultManager
	ctx     context.Context
}

// NewManager returns a stopped manager with maxWorkers workers
func NewManager(maxWorkers int) Manager {
	return &DefaultManager{
		maxWorkers: maxWorkers,
		tasks:      make(map[string]*Task),
		taskQueue:  make(chan *Task, queueSize),
		handlers:   make(map[TaskType]TaskHandler),
		events:     make(chan TaskEvent, queueSize),
	}
}

// Start launches the workers. Their context derives from ctx.
func (m *DefaultManager) Start(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.running {
		return fmt.Errorf("task manager is already running")
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true

	m.workers = make([]*worker, m.maxWorkers)
	for i := 0; i < m.maxWorkers; i++ {
		worker := &worker{
			id:      i,
			manager: m,
			ctx:     m.ctx,
		}
		m.workers[i] = worker
		m.wg.Add(1)
		go worker.start()
	}

	return nil
}

// Stop cancels running tasks and closes the queue. The event channel is
// closed once every worker has returned.
func (m *DefaultManager) Stop() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.running {
		return fmt.Errorf("task manager is not running")
	}

	m.cancel()
	close(m.taskQueue)

	// Workers drain in the background so quitting the UI is immediate
	go func() {
		m.wg.Wait()
		close(m.events)
	}()

	m.running = false

	return nil
}

// AddTask queues task as pending, assigning an id and creation time when
// missing
func (m *DefaultManager) AddTask(task *Task) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Stop closes the queue under the same lock
	if !m.running {
		return fmt.Errorf("task manager is not running")
	}

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.Status = TaskStatusPending

	select {
	case m.taskQueue <- task:
		m.tasks[task.ID] = task
		logging.Debug("Task queued", "taskID", task.ID, "type", task.Type)
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// GetTask retrieves a copy of the task with the given ID
func (m *DefaultManager) GetTask(id string) (*Task, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	task, exists := m.tasks[id]
	if !exists {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	copied := *task
	return &copied, nil
}

// ListTasks returns copies of the matching tasks, oldest first
func (m *DefaultManager) ListTasks(filter TaskFilter) ([]*Task, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var tasks []*Task
	for _, task := range m.tasks {
		if filter.Type != nil && task.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	if filter.Limit > 0 && len(tasks) > filter.Limit {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func (m *DefaultManager) Subscribe() <-chan TaskEvent {
	return m.events
}

// RegisterHandler binds handler to every task type it accepts. A type can
// only have one handler.
func (m *DefaultManager) RegisterHandler(handler TaskHandler) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, taskType := range AllTaskTypes {
		if handler.CanHandle(taskType) {
			if _, exists := m.handlers[taskType]; exists {
				return fmt.Errorf("handler for task type %s already exists", taskType)
			}
			m.handlers[taskType] = handler
		}
	}

	return nil
}

// publishEvent never blocks; the UI drains events between key presses
func (m *DefaultManager) publishEvent(event TaskEvent) {
	select {
	case m.events <- event:
	default:
		logging.Warn("Event channel full, dropping event", "type", event.Type, "taskID", event.TaskID)
	}
}

// RemoveTask forgets a finished or pending task
func (m *DefaultManager) RemoveTask(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	task, exists := m.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}

	if task.Status == TaskStatusRunning {
		return fmt.Errorf("cannot remove running task: %s", id)
	}

	delete(m.tasks, id)
	logging.Debug("Task removed", "taskID", id)
	return nil
}

func (m *DefaultManager) ClearFailedTasks() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	count := 0
	for id, task := range m.tasks {
		if task.Status == TaskStatusFailed {
			delete(m.tasks, id)
			count++
		}
	}

	logging.Debug("Cleared failed tasks", "count", count)
	return nil
}

func (w *worker) start() {
	defer w.manager.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case task, ok := <-w.manager.taskQueue:
			if !ok {
				return
			}
			w.executeTask(task)
		}
	}
}

func (w *worker) executeTask(task *Task) {
	w.manager.mutex.Lock()
	task.Status = TaskStatusRunning
	now := time.Now()
	task.StartedAt = &now
	w.manager.mutex.Unlock()

	w.manager.publishEvent(TaskEvent{
		Type:      TaskEventStarted,
		TaskID:    task.ID,
		TaskType:  task.Type,
		Status:    TaskStatusRunning,
		Data:      task.Data,
		Timestamp: time.Now(),
	})

	w.manager.mutex.RLock()
	handler, exists := w.manager.handlers[task.Type]
	w.manager.mutex.RUnlock()

	if !exists {
		w.completeTaskWithError(task, fmt.Errorf("no handler found for task type: %s", task.Type))
		return
	}

	result, err := handler.Execute(w.ctx, task)

	if err != nil {
		w.completeTaskWithError(task, err)
	} else {
		w.completeTask(task, result)
	}
}

// completeTask stores the backend reply as the task result
func (w *worker) completeTask(task *Task, result string) {
	w.manager.mutex.Lock()
	task.Status = TaskStatusCompleted
	task.Result = result
	now := time.Now()
	task.EndedAt = &now
	w.manager.mutex.Unlock()

	w.manager.publishEvent(TaskEvent{
		Type:      TaskEventCompleted,
		TaskID:    task.ID,
		TaskType:  task.Type,
		Status:    TaskStatusCompleted,
		Data:      task.Data,
		Result:    result,
		Timestamp: time.Now(),
	})
}

func (w *worker) completeTaskWithError(task *Task, err error) {
	w.manager.mutex.Lock()
	task.Status = TaskStatusFailed
	task.Error = err.Error()
	now := time.Now()
	task.EndedAt = &now
	w.manager.mutex.Unlock()

	w.manager.publishEvent(TaskEvent{
		Type:      TaskEventFailed,
		TaskID:    task.ID,
		TaskType:  task.Type,
		Status:    TaskStatusFailed,
		Data:      task.Data,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})

	logging.Error("Task failed", "taskID", task.ID, "type", task.Type, "error", err)
}
