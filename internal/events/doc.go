// Package events decouples the services that request background annotation
// work from the task machinery that performs it. Services emit
// TaskRequestEvents strictly after their own transaction has committed; the
// registered handler turns each event into a persisted background task.
package events
