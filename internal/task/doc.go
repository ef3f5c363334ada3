// Package task provides the background processing machinery for advisory AI
// annotation work. Tasks are persisted before execution, processed by a
// bounded worker pool, and recovered on restart; a periodic monitor resets
// tasks stuck in the processing state.
package task
