package core

// Version and GitSHA are set at build time with -ldflags.
var (
	Version = "0.0.0"
	GitSHA  = "0000000"
)

// ShowDebugMessages turns on connection level logging.
var ShowDebugMessages = false
