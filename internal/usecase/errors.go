package usecase

// DomainError is a business-rule failure the route layer can translate into
// a 4xx. Connector failures stay plain errors and surface as 500s.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}
