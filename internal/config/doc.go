// Package config loads shelf's configuration.
//
// # Overview
//
// shelf needs three settings to talk to a bookmark server: the server URL, a
// username and a password. None of them has a default. The remaining settings
// tune the request timeout, logging and the TUI's background refresh.
//
// # Configuration Discovery
//
// Load applies sources in this order, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, else ~/.config/shelf/config.toml); a
//     missing file is skipped
//  3. SHELF_* environment variables
//
// Before reading the environment, Load also loads a .env file next to the
// config file and one in the working directory. Variables already present in
// the environment are not overridden by .env files.
//
// # TOML Format
//
//	server_url = "http://localhost:8080"
//	username   = "shiori"
//	password   = "gopher"
//	timeout    = "30s"
//	log_level  = "info"
//	log_format = "text"
//	log_file   = "~/.local/state/shelf/shelf.log"
//	refresh    = "5m"
//
// # Environment Variables
//
//   - SHELF_SERVER_URL, SHELF_USERNAME, SHELF_PASSWORD
//   - SHELF_TIMEOUT, SHELF_REFRESH (Go duration syntax)
//   - SHELF_LOG_LEVEL, SHELF_LOG_FORMAT, SHELF_LOG_FILE
//
// # Default Values
//
//   - Config file: ~/.config/shelf/config.toml
//   - Timeout: 30s
//   - Log level/format: info/text
//   - Log file: ~/.local/state/shelf/shelf.log
//   - Refresh: disabled
//
// Tilde expansion is applied to the config path and log_file.
package config
