package pressroom_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/pressroom"
	"github.com/aretw0/pressroom/pkg/core"
)

// Example_basic creates a record, queues it and publishes it with the bundled
// dry-run publisher.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "pressroom-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := pressroom.New(tmpDir,
		pressroom.WithLogger(quiet),
		pressroom.WithClock(func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	body := "intro\n# 🐦 Thread\nshort version\n# 💼 Post\nlong version"
	id, err := eng.Service.Create(ctx, "Launch notes", []string{"twitter", "linkedin"}, body)
	if err != nil {
		log.Fatal(err)
	}

	if err := eng.Service.Transition(ctx, id, core.StatusQueued); err != nil {
		log.Fatal(err)
	}

	results, err := eng.Coordinator.Publish(ctx, id, "")
	if err != nil {
		log.Fatal(err)
	}

	rec, err := eng.Service.Locate(ctx, id)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(id, rec.Status, rec.Source.State)
	fmt.Println(results["twitter"].Success, results["linkedin"].Success)
	// Output:
	// 001 queued queue
	// true true
}
