package document

import (
	"fmt"
	"io"
	"os"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// ReadFileLimited reads a local notice file, refusing anything larger than
// maxBytes before the contents reach a parser. maxBytes <= 0 disables the
// bound. The read itself is capped too, so a file that grows after the size
// check is still rejected.
func ReadFileLimited(path string, maxBytes int64) ([]byte, error) {
	const op = "read notice file"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	if maxBytes <= 0 {
		return io.ReadAll(f)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tooLarge := domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("%s exceeds %d bytes", path, maxBytes))
	if info.Size() > maxBytes {
		return nil, tooLarge
	}
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, tooLarge
	}
	return data, nil
}
