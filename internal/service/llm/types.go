package llm

import "context"

type Question struct {
	Content string
}

type Answer struct {
	Content string
}

// Service is the summarizer boundary. Implementations return an error on
// provider failure and never panic; callers are expected to degrade to an
// error-annotated report instead of aborting their cycle.
type Service interface {
	AskOnce(ctx context.Context, q Question) (Answer, error)
}
