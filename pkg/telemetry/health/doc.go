// Package health provides liveness and readiness probes for vendorgate.
//
//   - /health: liveness, 200 while the process is serving
//   - /ready: readiness, runs every registered component check and returns
//     503 when any of them fails
//   - /version: build information
//
// Components register checks by name; anything with a Ping(ctx) error
// method can be adapted with PingCheck:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("sink", health.PingCheck(resultSink))
//	checker.RegisterCheck("registry_cache", health.PingCheck(redisCache))
//
// Checks run concurrently, each bounded by the check timeout.
package health
