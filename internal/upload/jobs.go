package upload

import (
	"sync"
	"time"
)

type jobState struct {
	createdAt    time.Time
	status       string
	done         int
	total        int
	succeeded    int
	errorMessage string
}

// JobManager provides thread-safe storage for bulk upload job progress.
// The done/total counter counts items no longer in flight, success or not;
// increments arrive from concurrently-resolving uploads.
type JobManager struct {
	jobs map[string]*jobState
	mu   sync.RWMutex
}

func NewJobManager() *JobManager {
	jm := &JobManager{
		jobs: make(map[string]*jobState),
	}

	go jm.cleanupExpiredJobs()

	return jm
}

func (jm *JobManager) cleanupExpiredJobs() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		jm.mu.Lock()
		now := time.Now()
		for jobID, job := range jm.jobs {
			// Remove jobs older than 24 hours
			if now.Sub(job.createdAt) > 24*time.Hour {
				delete(jm.jobs, jobID)
			}
		}
		jm.mu.Unlock()
	}
}

func (jm *JobManager) Create(jobID string, total int) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	jm.jobs[jobID] = &jobState{
		createdAt: time.Now(),
		status:    "processing",
		total:     total,
	}
}

// ItemFinished records one item leaving flight, counting its outcome
func (jm *JobManager) ItemFinished(jobID string, succeeded bool) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if job, exists := jm.jobs[jobID]; exists {
		job.done++
		if succeeded {
			job.succeeded++
		}
	}
}

func (jm *JobManager) MarkCompleted(jobID string) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if job, exists := jm.jobs[jobID]; exists {
		job.status = "completed"
	}
}

func (jm *JobManager) MarkFailed(jobID string, errorMessage string) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if job, exists := jm.jobs[jobID]; exists {
		job.status = "failed"
		job.errorMessage = errorMessage
	}
}

// Snapshot returns a point-in-time status for a job
func (jm *JobManager) Snapshot(jobID string) (JobStatusResponse, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[jobID]
	if !exists {
		return JobStatusResponse{}, false
	}

	resp := JobStatusResponse{
		JobID:     jobID,
		Status:    job.status,
		Done:      job.done,
		Total:     job.total,
		Succeeded: job.succeeded,
		Error:     job.errorMessage,
	}
	if job.total > 0 {
		resp.Progress = (job.done * 100) / job.total
	}
	return resp, true
}

// Delete discards a job's progress record, reporting whether it existed
func (jm *JobManager) Delete(jobID string) bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	if _, exists := jm.jobs[jobID]; !exists {
		return false
	}
	delete(jm.jobs, jobID)
	return true
}
