package session

import "errors"

var (
	// ErrNoJob is returned when a candidate is added before any job was analysed.
	ErrNoJob = errors.New("no job analysed yet: analyse the role first")

	// ErrEmptyDescription is returned when a job has no description to analyse.
	ErrEmptyDescription = errors.New("job description is empty")

	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")

	ErrCandidateNotFound = errors.New("candidate not found")

	ErrUnknownTag = errors.New("unknown tag")
)
