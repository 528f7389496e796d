// Package ragerr names the pipeline stage an error came from so callers can
// decide whether to skip an item, degrade an answer or fail.
package ragerr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindLoad     Kind = "load"
	KindDescribe Kind = "describe"
	KindEmbed    Kind = "embed"
	KindStore    Kind = "store"
	KindRetrieve Kind = "retrieve"
	KindGenerate Kind = "generate"
)

var (
	ErrUnsupported   = errors.New("unsupported file type")
	ErrEmptyResponse = errors.New("empty model response")
	ErrNoEmbedding   = errors.New("no embedding returned")
	ErrEmptyContent  = errors.New("empty content")
	ErrDuplicateID   = errors.New("duplicate chunk id")
)

type StageError struct {
	Kind Kind
	Item string
	Err  error
}

func New(kind Kind, item string, err error) *StageError {
	return &StageError{Kind: kind, Item: item, Err: err}
}

func (e *StageError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Item, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// KindOf returns the stage of the first StageError in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}

// ItemOf returns the item a StageError was raised for.
func ItemOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Item
	}
	return ""
}
