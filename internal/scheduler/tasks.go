package scheduler

import "github.com/hibiken/asynq"

const TaskStatsBroadcast = "leads.stats.broadcast"

// NewStatsBroadcastTask creates the periodic stats broadcast task. The task
// carries no payload; the worker recomputes every role snapshot.
func NewStatsBroadcastTask() *asynq.Task {
	return asynq.NewTask(TaskStatsBroadcast, nil)
}
