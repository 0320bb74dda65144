// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, initial delay and maximum delay. The oVirt transport uses it for
// idempotent read calls; mutations are never retried. Errors wrapped with
// [Fatal] stop the loop immediately.
package retry
