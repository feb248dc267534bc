// Package queuestore implements queue.Store on top of the supported backends.
//
// Every backend serializes writes so that queue numbers are issued without gaps
// and the seat capacity check in SetStatus observes the same state it commits.
package queuestore
