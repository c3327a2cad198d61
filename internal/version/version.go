// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - HTTP API with websocket snapshot stream, Prometheus metrics, per-IP rate limits
// 0.3.0 - Parallel event scanner, compound transit/shadow annotations, eclipsed reappearance suppression
// 0.2.0 - Great Red Spot transit tracking, JSON export, YAML config
// 0.1.0 - Initial release: moon positions, shadow model, TUI system view
