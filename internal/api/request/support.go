package request

type CreateSupportTicket struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Subject   string  `json:"subject" validate:"required,max=255"`
	Message   string  `json:"message" validate:"required,max=5000"`
}
