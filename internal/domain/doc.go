// Package domain contains the bot's core types: Discord entity snapshots
// (guilds, channels, roles, members, messages), archive window planning,
// role menu parsing, and leaderboard ranking. It also holds the sentinel
// errors and validation types shared across all layers.
//
// The package is dependency-free on purpose; adapters translate Discord API
// and database representations into these types at the boundary.
package domain
