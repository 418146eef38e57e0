// Package retry provides exponential backoff retry logic for transient failures.
//
// [Do] retries an operation with configurable max retries, initial delay
// and maximum delay. Provider packages use it for Hetzner Cloud deletes
// that fail while a resource is locked; the workflow runner never retries.
package retry
