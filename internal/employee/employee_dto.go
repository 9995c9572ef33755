package employee

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	EmployeeNumber string `json:"employee_number"`
	Department     string `json:"department" binding:"required"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	ProfileID      string `json:"profile_id,omitempty"`
	Department     string `json:"department,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
}
