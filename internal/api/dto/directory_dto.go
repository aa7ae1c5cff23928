package dto

// ResolveRequest asks for display names of directory identifiers.
type ResolveRequest struct {
	DepartmentIDs []string `json:"department_ids,omitempty"`
	EmployeeIDs   []string `json:"employee_ids,omitempty"`
}

// ResolveResponse maps identifiers to display names. Identifiers the
// directory could not resolve map to themselves.
type ResolveResponse struct {
	Departments map[string]string `json:"departments,omitempty"`
	Employees   map[string]string `json:"employees,omitempty"`
}
