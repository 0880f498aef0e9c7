package room

import "context"

// JobInfo describes the unit of work a job context belongs to.
type JobInfo struct {
	ID        string // Caller-supplied job identifier
	RoomName  string // Simulated room name
	AgentName string // Logical agent name
	Metadata  string // Opaque job metadata
}

// JobContext is the simulated host context handed to the entry function. It
// mirrors the surface agent code expects from a realtime job context: a job
// descriptor, a room, and a connect operation.
type JobContext struct {
	Job  JobInfo
	Room *Room
}

// NewJobContext builds a job context around a room.
func NewJobContext(jobID, agentName string, r *Room) *JobContext {
	return &JobContext{
		Job: JobInfo{
			ID:        jobID,
			RoomName:  r.Name,
			AgentName: agentName,
			Metadata:  "{}",
		},
		Room: r,
	}
}

// Connect connects the simulated room. See Room.Connect.
func (c *JobContext) Connect() error { return c.Room.Connect() }

// Context returns the run's context for cancellation-aware entry functions.
func (c *JobContext) Context() context.Context { return c.Room.Context() }
