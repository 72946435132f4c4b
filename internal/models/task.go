package models

import "time"

// StrategyTask is one blueprint request travelling from the HTTP server to a worker.
type StrategyTask struct {
	TaskID     string    `json:"task_id"`
	ClientID   string    `json:"client_id,omitempty"`
	Task       string    `json:"task"`
	Stack      string    `json:"stack"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// TaskResult carries either Text or an error Kind back to the waiting server.
type TaskResult struct {
	TaskID string `json:"task_id"`
	Text   string `json:"text,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (r *TaskResult) Failed() bool {
	return r.Kind != "" || r.Error != ""
}
