// Package enableapp removes quarantine and other extended attributes from
// macOS application bundles and keeps a log of the outcome for each item.
//
// An app downloaded from the internet carries the com.apple.quarantine
// attribute, which makes Gatekeeper prompt before launch or, for unsigned
// apps, refuse to open them as "damaged". enableapp clears those attributes by
// running
//
//	/usr/bin/xattr -cr <path>
//
// once per dropped item and records a ResultEntry for every run.
//
// # Basic Usage
//
// Process items one at a time with a Pipeline:
//
//	p := enableapp.NewPipeline(xattr.NewCommandClearer())
//	entry := p.Process(ctx, "/Applications/Foo.app")
//	if !entry.Success {
//	    fmt.Println(entry.Name, entry.Message)
//	}
//	for _, e := range p.Log().Entries() {
//	    fmt.Println(e.Name, e.Success)
//	}
//
// # Concurrent Drops
//
// When items arrive from several goroutines (a folder watcher, a GUI drop
// handler), submit them to a Coordinator. The external command runs on a
// worker goroutine per item and a single owner goroutine prepends every
// result, so the log never loses or interleaves entries:
//
//	c := enableapp.NewCoordinator(p)
//	go c.Run(ctx)
//	c.Submit(ctx, "/Applications/Foo.app")
//	c.Submit(ctx, "/Applications/Bar.app")
//	c.Close() // waits for both, then stops Run
//
// # Result Log
//
// The log is ordered newest first. Entries are never removed, deduplicated,
// or persisted; the log lives as long as the process.
//
// Failures never escape the pipeline. A command that cannot be started, or
// that exits non-zero, produces a failure entry whose Message explains why.
package enableapp
