package dto

// CreateApplicationRequest is the candidate's internship or free-course
// application.
type CreateApplicationRequest struct {
	TargetType string  `json:"targetType" binding:"required,oneof=INTERNSHIP COURSE"`
	TargetID   int64   `json:"targetId" binding:"required,gt=0"`
	Message    *string `json:"message,omitempty"`
}

// ReviewApplicationRequest carries an optional manager note on a decision.
type ReviewApplicationRequest struct {
	Message string `json:"message,omitempty"`
}
