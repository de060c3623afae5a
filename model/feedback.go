package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Thumbs is a binary user verdict on a response
type Thumbs string

const (
	ThumbsUp   Thumbs = "up"
	ThumbsDown Thumbs = "down"
)

// Correctness is the user's judgement of a response's correctness
type Correctness string

const (
	CorrectnessCorrect          Correctness = "correct"
	CorrectnessPartiallyCorrect Correctness = "partially_correct"
	CorrectnessIncorrect        Correctness = "incorrect"
)

// Feedback is a user's rating of a processed query.
// Rating, Thumbs and Correctness are optional.
type Feedback struct {
	ID          uuid.UUID   `json:"id"`
	QueryID     uuid.UUID   `json:"query_id"`
	Rating      *int        `json:"rating,omitempty"`
	Thumbs      Thumbs      `json:"thumbs,omitempty"`
	Correctness Correctness `json:"correctness,omitempty"`
	Comment     string      `json:"comment,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Validate checks the feedback fields
func (f *Feedback) Validate() error {
	var result *multierror.Error
	if f.QueryID == uuid.Nil {
		result = multierror.Append(result, errors.New("query id is required"))
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		result = multierror.Append(result, fmt.Errorf("rating %d out of range [1,5]", *f.Rating))
	}
	switch f.Thumbs {
	case "", ThumbsUp, ThumbsDown:
	default:
		result = multierror.Append(result, fmt.Errorf("invalid thumbs %q", f.Thumbs))
	}
	switch f.Correctness {
	case "", CorrectnessCorrect, CorrectnessPartiallyCorrect, CorrectnessIncorrect:
	default:
		result = multierror.Append(result, fmt.Errorf("invalid correctness %q", f.Correctness))
	}
	return result.ErrorOrNil()
}

// IsPositive reports a thumbs up or a rating of at least 4
func (f *Feedback) IsPositive() bool {
	return f.Thumbs == ThumbsUp || (f.Rating != nil && *f.Rating >= 4)
}

// IsNegative reports a thumbs down, a rating below 3 or a response judged not fully correct
func (f *Feedback) IsNegative() bool {
	return f.Thumbs == ThumbsDown ||
		(f.Rating != nil && *f.Rating < 3) ||
		f.Correctness == CorrectnessIncorrect ||
		f.Correctness == CorrectnessPartiallyCorrect
}
