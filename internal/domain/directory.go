package domain

// Department is a display record resolved from the identity service.
type Department struct {
	ID          string
	Code        string
	DisplayName string
}

// Employee is a display record resolved from the identity service.
type Employee struct {
	ID          string
	Code        string
	DisplayName string
}
