// Package http implements the HTTP handlers of the dashboard server. Handlers
// parse and validate the request, call a service and format the response;
// they hold no business logic.
//
// Routes served by the handlers of this package:
//
//	GET /dashboard?start=&end=        HTML page (DashboardHandler)
//	GET /assets/logo                  configured logo image
//	GET /api/data/series              full history as JSON (DataHandler)
//	GET /api/data/summary             period summary as JSON
//	GET /api/data/export.csv          CSV download
//	GET /api/data/export.xlsx         Excel download
//	GET /api/health[/live|/ready]     health checks (HealthHandler)
//	GET /api/version                  build information
//
// JSON errors are RFC 7807 problem details rendered by errors.ErrorHandler.
// The dashboard renders an HTML error page with the same status instead.
package http
