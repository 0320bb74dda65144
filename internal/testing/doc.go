// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - PoolParamsBuilder: Fluent builder for desired pool state
//   - EngineFixture: Pre-seeded in-memory engine for common scenarios
//
// Usage:
//
//	params := testing.NewPoolParamsBuilder().
//	    WithName("pool1").
//	    WithCounts(2, 2, 1).
//	    Build()
//
//	engine := testing.NewEngineFixture().Engine()
package testing
