package lifecycle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pressroom/pkg/core"
)

func TestSource_ForwardsAndCloses(t *testing.T) {
	in := make(chan core.Event, 1)
	src := NewSource(in)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, ID: "007", State: core.StateQueue}
	select {
	case e := <-src.Events():
		assert.Equal(t, "MODIFY queue/007", fmt.Sprint(e))
	case <-ctx.Done():
		t.Fatal("Timed out waiting for event")
	}

	close(in)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-ctx.Done():
		t.Fatal("output channel was not closed")
	}
}
