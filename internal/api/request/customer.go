package request

type CreateCustomer struct {
	CommonData CommonData `json:"common_data"`
	Contact    Contact    `json:"contact"`
	Address    *Address   `json:"address" validate:"omitempty"`
	Status     string     `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateCustomer struct {
	CommonData CommonData `json:"common_data"`
	Contact    Contact    `json:"contact"`
	Address    *Address   `json:"address" validate:"omitempty"`
	Status     string     `json:"status" validate:"omitempty,oneof=active inactive"`
}
