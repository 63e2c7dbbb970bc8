package amqp

import (
	"encoding/json"
	"time"
)

// Job types carried on the queue.
const (
	JobOTPMail        = "otp_mail"
	JobReportSnapshot = "report_snapshot"
)

// Job is the envelope for asynchronous work: OTP verification mails and
// monthly report exports. It is intentionally small; the worker re-reads
// whatever else it needs from the database.
type Job struct {
	Type      string    `json:"type"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	Code      string    `json:"code,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Month     string    `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOTPMailJob builds a verification mail job.
func NewOTPMailJob(email, name, code string) *Job {
	return &Job{Type: JobOTPMail, Email: email, Name: name, Code: code, Timestamp: time.Now()}
}

// NewReportSnapshotJob builds a monthly report export job.
func NewReportSnapshotJob(userID, month string) *Job {
	return &Job{Type: JobReportSnapshot, UserID: userID, Month: month, Timestamp: time.Now()}
}

// ToJSON converts the job to JSON bytes.
func (j *Job) ToJSON() ([]byte, error) {
	return json.Marshal(j)
}

// JobFromJSON creates a job from JSON bytes.
func JobFromJSON(data []byte) (*Job, error) {
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	return &j, nil
}
