package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	userID := uuid.New()
	scheduled := time.Now().UTC().Add(24 * time.Hour)

	task, err := NewTask(userID, "  write report  ", " quarterly numbers ", scheduled)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if task.Title != "write report" {
		t.Errorf("Expected trimmed title %q, got %q", "write report", task.Title)
	}

	if task.Description != "quarterly numbers" {
		t.Errorf("Expected trimmed description, got %q", task.Description)
	}

	if task.Status != TaskStatusPending {
		t.Errorf("Expected initial status pending, got %s", task.Status)
	}

	if task.CompletedAt != nil {
		t.Error("Expected nil CompletedAt for a new task")
	}

	// Required fields
	if _, err := NewTask(uuid.Nil, "title", "", scheduled); err != ErrTaskUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskUserIDEmpty, err)
	}

	if _, err := NewTask(userID, "   ", "", scheduled); err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}

	if _, err := NewTask(userID, "title", "", time.Time{}); err != ErrTaskScheduledForZero {
		t.Errorf("Expected error %v, got %v", ErrTaskScheduledForZero, err)
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name         string
		scheduledFor time.Time
		current      TaskStatus
		want         TaskStatus
	}{
		{"completed is sticky for past times", past, TaskStatusCompleted, TaskStatusCompleted},
		{"completed is sticky for future times", future, TaskStatusCompleted, TaskStatusCompleted},
		{"pending in the past becomes missed", past, TaskStatusPending, TaskStatusMissed},
		{"pending in the future stays pending", future, TaskStatusPending, TaskStatusPending},
		{"pending exactly now stays pending", now, TaskStatusPending, TaskStatusPending},
		{"missed in the past stays missed", past, TaskStatusMissed, TaskStatusMissed},
		{"missed with future time derives pending", future, TaskStatusMissed, TaskStatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveStatus(tc.scheduledFor, tc.current, now)
			if got != tc.want {
				t.Errorf("DeriveStatus(%v, %s) = %s, want %s", tc.scheduledFor, tc.current, got, tc.want)
			}
		})
	}
}

func TestApplyStatusCompletionTimestamp(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(uuid.New(), "title", "", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// pending -> completed sets CompletedAt
	if err := task.ApplyStatus(TaskStatusCompleted, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatal("Expected CompletedAt to be set after completing")
	}
	firstCompleted := *task.CompletedAt

	// completing again keeps the original timestamp
	if err := task.ApplyStatus(TaskStatusCompleted, now.Add(time.Minute)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !task.CompletedAt.Equal(firstCompleted) {
		t.Errorf("Expected CompletedAt to stay %v, got %v", firstCompleted, *task.CompletedAt)
	}

	// completed -> pending clears CompletedAt
	if err := task.ApplyStatus(TaskStatusPending, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.CompletedAt != nil {
		t.Errorf("Expected CompletedAt cleared, got %v", *task.CompletedAt)
	}

	// unknown status rejected
	if err := task.ApplyStatus(TaskStatus("archived"), now); err != ErrInvalidTaskStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskStatus, err)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	task := &Task{Status: TaskStatusPending, ScheduledFor: now.Add(-time.Minute)}
	if !task.IsOverdue(now) {
		t.Error("Expected pending task with past schedule to be overdue")
	}

	task.Status = TaskStatusCompleted
	if task.IsOverdue(now) {
		t.Error("Expected completed task to never be overdue")
	}

	task.Status = TaskStatusPending
	task.ScheduledFor = now.Add(time.Minute)
	if task.IsOverdue(now) {
		t.Error("Expected future pending task to not be overdue")
	}
}
