// Package app wires configuration, telemetry, services and HTTP handlers into
// a runnable dashboard server and manages its lifecycle.
//
// # Initialization Flow
//
//	1. The caller loads configuration and builds the logger
//	2. NewApplication initializes OpenTelemetry and the dashboard metrics
//	3. The series cache, dashboard and health services are created
//	4. The chi router and middleware chain are assembled
//	5. Run listens, serves and shuts down on SIGINT/SIGTERM
package app
