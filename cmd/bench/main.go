package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/pressroom"
	"github.com/aretw0/pressroom/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of records to create")
	keep := flag.Bool("keep", false, "Keep the benchmark root after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "pressroom_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	// Info logs on every create would dominate the timing.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := pressroom.New(benchDir, pressroom.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	ctx := context.TODO()

	fmt.Printf("Creating %d records in %s...\n", *count, benchDir)
	startCreate := time.Now()
	var last string
	for i := 0; i < *count; i++ {
		last, err = eng.Service.Create(ctx, fmt.Sprintf("Benchmark record %d", i),
			[]string{"twitter", "linkedin"},
			"# 🐦 Thread\nshort text\n# 💼 Post\nlonger text")
		if err != nil {
			panic(err)
		}
	}
	create := time.Since(startCreate)

	fmt.Println("Running List...")
	startList := time.Now()
	list, err := eng.Service.List(ctx, core.StateInput, "")
	if err != nil {
		panic(err)
	}
	listDur := time.Since(startList)

	fmt.Println("Running Locate on the last record...")
	startLocate := time.Now()
	if _, err := eng.Service.Locate(ctx, last); err != nil {
		panic(err)
	}
	locate := time.Since(startLocate)

	fmt.Println("Running Publish (dry-run) on the last record...")
	startPublish := time.Now()
	if _, err := eng.Coordinator.Publish(ctx, last, ""); err != nil {
		panic(err)
	}
	pub := time.Since(startPublish)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d records):\n", *count)
	fmt.Printf("  Create:  %v (%v/op)\n", create, create/time.Duration(max(*count, 1)))
	fmt.Printf("  List:    %v (Items: %d)\n", listDur, len(list))
	fmt.Printf("  Locate:  %v\n", locate)
	fmt.Printf("  Publish: %v\n", pub)
	fmt.Printf("--------------------------------------------------\n")
}
