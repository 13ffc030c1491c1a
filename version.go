package exusiai

// Version is the release of the module, reported by the CLI and servers.
const Version = "0.4.0"
