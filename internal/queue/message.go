package queue

import "encoding/json"

// JobReady announces that a screening job has been enqueued and a worker
// should wake up and try to claim it. The database row remains the source
// of truth; losing a notification only delays pickup until the next poll.
type JobReady struct {
	JobID   string `json:"job_id"`
	BatchID string `json:"batch_id,omitempty"`
}

func (m JobReady) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func UnmarshalJobReady(b []byte) (JobReady, error) {
	var m JobReady
	err := json.Unmarshal(b, &m)
	return m, err
}
