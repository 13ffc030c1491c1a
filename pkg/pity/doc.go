/*
Package pity serializes access to pity counters.

A pull reads a user's counter, draws, and writes the counter back. The Manager
makes that read-modify-write safe across goroutines with per-key mutexes, and
across replicas when a distributed ports.Locker is configured.
*/
package pity
