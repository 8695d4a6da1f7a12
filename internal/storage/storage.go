// Package storage keeps the content of uploaded documents. Metadata lives in
// the relational store; only the derived filename links the two.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotExist is returned when no object is stored under a name.
var ErrNotExist = errors.New("stored file does not exist")

// Object is an open stored file. Callers must Close it.
type Object struct {
	io.ReadCloser
	Size int64
}

// Storage persists document content by flat name.
type Storage interface {
	Save(ctx context.Context, name string, content io.Reader) error
	Open(ctx context.Context, name string) (*Object, error)
	Remove(ctx context.Context, name string) error
}

// validateName rejects names that could address anything outside the root.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("invalid storage name %q", name)
	}
	return nil
}
