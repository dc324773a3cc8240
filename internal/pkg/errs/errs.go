// Package errs wraps cockroachdb/errors so the rest of the codebase depends
// on one error surface: Wrap for context, Mark to attach domain sentinels
// while keeping the cause chain intact for errors.Is.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}
