// Package notify carries progress and diagnostic events from the
// conversion pipeline to whatever front end is running it.
//
// Producers build events through the level constructors, which render a
// message template from the key catalog:
//
//	onEvent.Emit(notify.Warning(notify.KeySampleMissing, path))
//
// Consumers receive an Event with the key, the rendered message and a
// severity level. Filtering by level (for example hiding LevelVerbose) is
// the consumer's job.
package notify
