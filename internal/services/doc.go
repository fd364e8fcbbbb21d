// Package services implements the business logic behind the HTTP handlers and
// the CLI. DashboardService loads the price history through the series cache,
// summarizes a period and formats the dashboard view model and exports.
// HealthService reports liveness and whether the price file can be loaded.
package services
