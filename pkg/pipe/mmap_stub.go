//go:build !unix

package pipe

import (
	"errors"
	"fmt"
)

const mappedSupported = false

func openMappedStorage(capacity int64, opts []Option) (Storage, error) {
	return nil, fmt.Errorf("pipe: memory-mapped storage: %w", errors.ErrUnsupported)
}
