package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/talentmatch/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	task1 := model.Employee{ID: "EMP-001", FullName: "Alice Pranata", GradeTier: 3}
	if !q.Enqueue(ctx, task1) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	taskChan := q.Dequeue(ctx)
	task := <-taskChan
	if task.ID != "EMP-001" {
		t.Errorf("expected EMP-001, got %v", task.ID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	task1 := model.Employee{ID: "EMP-001"}
	task2 := model.Employee{ID: "EMP-002"}
	task3 := model.Employee{ID: "EMP-003"}

	if !q.Enqueue(ctx, task1) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, task2) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, task3) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numTasks := 100

	// Start producer goroutines
	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numTasks; j++ {
				task := model.Employee{
					ID:       fmt.Sprintf("EMP-%d-%d", id, j),
					FullName: fmt.Sprintf("Employee %d", id),
				}
				for !q.Enqueue(ctx, task) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	// Start consumer goroutines
	consumed := make(chan string, numGoroutines*numTasks)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			taskChan := q.Dequeue(ctx)
			for task := range taskChan {
				consumed <- task.ID
			}
		}()
	}

	// Wait for producers to finish
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Wait a bit for consumers to process
	time.Sleep(100 * time.Millisecond)

	// Check final queue length
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	task1 := model.Employee{ID: "EMP-001"}
	task2 := model.Employee{ID: "EMP-002"}

	if !q.Enqueue(ctx, task1) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, task2) {
		t.Error("expected enqueue to succeed")
	}

	// Check initial state
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	// Close the queue
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	// Check closed state
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(ctx, task1) {
		t.Error("expected enqueue to fail after closing")
	}

	// The dequeue channel still drains buffered tasks, then closes.
	taskChan := q.Dequeue(ctx)
	var drained []string
	timeout := time.After(500 * time.Millisecond)
	for {
		select {
		case task, ok := <-taskChan:
			if !ok {
				goto channelClosed
			}
			drained = append(drained, task.ID)
		case <-timeout:
			t.Error("expected dequeue channel to close within timeout")
			return
		}
	}
channelClosed:
	if len(drained) != 2 {
		t.Errorf("expected 2 drained tasks, got %d", len(drained))
	}

	// Close again should not error
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}

func TestInMemoryQueue_BufferAtLeastCapacity(t *testing.T) {
	// A narrow buffer option must not make Enqueue block below capacity.
	q := NewInMemoryQueue(WithCapacity(50), WithBufferSize(1))
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		if !q.Enqueue(ctx, model.Employee{ID: fmt.Sprintf("EMP-%03d", i)}) {
			t.Fatalf("enqueue %d failed below capacity", i)
		}
	}
	if q.Enqueue(ctx, model.Employee{ID: "EMP-OVER"}) {
		t.Error("expected enqueue to fail at capacity")
	}
	if l := q.Len(ctx); l != 50 {
		t.Errorf("expected length 50, got %d", l)
	}
}
