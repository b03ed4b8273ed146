package dto

// CreateEnrollmentRequest is the candidate's enrollment submission. A
// payment screenshot may be attached up front; when it is, the payment is
// treated as completed and the enrollment is immediately acceptable.
type CreateEnrollmentRequest struct {
	CourseID          int64   `json:"courseId" binding:"required,gt=0"`
	PaymentMethod     *string `json:"paymentMethod,omitempty"`
	TransactionID     *string `json:"transactionId,omitempty"`
	PaymentScreenshot *string `json:"paymentScreenshot,omitempty"`
}

// SubmitPaymentRequest completes payment on a payment_pending enrollment.
// All three fields are required.
type SubmitPaymentRequest struct {
	PaymentMethod     string `json:"paymentMethod" binding:"required"`
	TransactionID     string `json:"transactionId" binding:"required"`
	PaymentScreenshot string `json:"paymentScreenshot" binding:"required"`
}

// RejectEnrollmentRequest carries the manager's free-text note.
type RejectEnrollmentRequest struct {
	Message string `json:"message,omitempty"`
}

// EnrollmentStatusResponse answers the per-course status check.
type EnrollmentStatusResponse struct {
	Enrolled bool   `json:"enrolled"`
	Status   string `json:"status,omitempty"`
}
