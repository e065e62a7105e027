// Package pressroom is the Composition Root for the content pipeline.
//
// Content items are Markdown files with a small metadata block. The folder a
// file lives in is its stage:
//
//	input/       drafts being written
//	processing/  drafts under review
//	queue/       ready to publish
//	output/      published
//
// pressroom wires the folder store (pkg/adapters/fs), the lifecycle manager
// (pkg/core), the platform segmenter (pkg/segment) and the publish coordinator
// (pkg/publish) behind one Engine.
//
// Usage:
//
//	eng, err := pressroom.New("./content",
//		pressroom.WithLogger(logger),
//	)
//
//	id, err := eng.Service.Create(ctx, "Launch notes", []string{"twitter"}, body)
//	err = eng.Service.Transition(ctx, id, core.StatusQueued)
//	results, err := eng.Coordinator.Publish(ctx, id, "")
package pressroom
