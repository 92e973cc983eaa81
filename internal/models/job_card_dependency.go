package models

import "time"

type JobCardDependency struct {
	ID                    int64      `json:"id"`
	DependentJobCardID    int64      `json:"dependent_job_card_id"`
	DependentJobCardNo    string     `json:"dependent_job_card_no"`
	PrerequisiteJobCardID int64      `json:"prerequisite_job_card_id"`
	PrerequisiteJobCardNo string     `json:"prerequisite_job_card_no"`
	DependencyType        string     `json:"dependency_type"`
	IsResolved            bool       `json:"is_resolved"`
	ResolvedAt            *time.Time `json:"resolved_at,omitempty"`
	LagTimeMinutes        *int       `json:"lag_time_minutes,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

type CreateJobCardDependencyRequest struct {
	DependentJobCardID    int64  `json:"dependent_job_card_id"`
	DependentJobCardNo    string `json:"dependent_job_card_no"`
	PrerequisiteJobCardID int64  `json:"prerequisite_job_card_id"`
	PrerequisiteJobCardNo string `json:"prerequisite_job_card_no"`
	DependencyType        string `json:"dependency_type"`
	LagTimeMinutes        *int   `json:"lag_time_minutes,omitempty"`
}
