package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskResolveDocument is the job type name stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskResolveDocument = "bulk_upload:resolve"
)

// ResolveDocumentPayload is the JSON payload for the document resolution task.
type ResolveDocumentPayload struct {
	DocumentID  int64  `json:"document_id"`
	RequestedBy string `json:"requested_by"`
}

// NewResolveDocumentTask constructs an Asynq task that resolves one bulk
// upload document. Resolution touches many catalog rows, so the task gets a
// generous timeout and runs on the critical queue.
func NewResolveDocumentTask(documentID int64, requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(ResolveDocumentPayload{
		DocumentID:  documentID,
		RequestedBy: requestedBy,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskResolveDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(5*time.Minute),
	), nil
}
