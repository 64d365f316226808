package catalog

import (
	"bytes"
	"context"
	"io"
	"os"
)

// Source yields the generated article data document.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

type FileSource string

func (p FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(string(p))
}

func (p FileSource) String() string { return string(p) }

// BytesSource serves an in-memory document.
type BytesSource []byte

func (b BytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (b BytesSource) String() string { return "memory" }
