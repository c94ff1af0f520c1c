package wal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"vecdb-go/internal/collection"
)

// ReplayError reports the line at which recovery had to abort.
type ReplayError struct {
	Line   int
	Detail string
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("wal: invalid data at line %d: %s", e.Line, e.Detail)
}

// Replay reads path line by line and applies each record to registry in
// file order. A missing file is not an error. Only the final line may be
// torn (truncated mid-record with no trailing newline and no further
// bytes) — every other malformed line aborts replay.
func Replay(path string, registry *collection.Registry, maxDimension, maxPoints int) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("wal: open %s: %w", path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	lineNumber := 0

	for {
		rawLine, readErr := reader.ReadString('\n')
		if len(rawLine) == 0 && readErr != nil {
			break
		}
		lineNumber++

		hasTrailingNewline := strings.HasSuffix(rawLine, "\n")
		trimmed := strings.TrimSpace(rawLine)

		if trimmed == "" {
			if readErr != nil {
				break
			}
			continue
		}

		var record Record
		if unmarshalErr := json.Unmarshal([]byte(trimmed), &record); unmarshalErr != nil {
			_, peekErr := reader.Peek(1)
			noMoreBytes := errors.Is(peekErr, io.EOF)
			if !hasTrailingNewline && noMoreBytes {
				break
			}
			return &ReplayError{Line: lineNumber, Detail: unmarshalErr.Error()}
		}

		if applyErr := Apply(registry, maxDimension, maxPoints, record); applyErr != nil {
			return &ReplayError{Line: lineNumber, Detail: applyErr.Error()}
		}

		if readErr != nil {
			break
		}
	}

	return nil
}
