package bootstrap

// Shutdown log messages
const (
	LogMsgShuttingDownServer   = "Shutting down server"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgServerStopped        = "Server stopped"
	LogMsgStoreClosed          = "Storage connection closed"
)
