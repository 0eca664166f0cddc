package cmd

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/blacktop/memsym/internal/commands/gen"
	"github.com/stretchr/testify/assert"
)

func TestBatchProgress(t *testing.T) {
	var progress batchProgress

	last, err := progress.snapshot()
	assert.Zero(t, last.Day)
	assert.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			progress.record(gen.DayReport{Day: day, Date: fmt.Sprintf("2025-01-%02d", day)})
			progress.snapshot()
		}(i)
	}
	wg.Wait()

	last, _ = progress.snapshot()
	assert.GreaterOrEqual(t, last.Day, 1)
	assert.LessOrEqual(t, last.Day, 8)

	first := errors.New("failed to store 2025-01-02")
	progress.fail(first)
	progress.fail(errors.New("failed to store 2025-01-03"))
	_, err = progress.snapshot()
	assert.Equal(t, first, err)
}
