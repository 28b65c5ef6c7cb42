// Copyright 2025 Certen Protocol

package cli

import "time"

// gracefulShutdownTimeout bounds how long a node process waits for
// in-flight requests to drain on SIGINT/SIGTERM before forcing shutdown.
const gracefulShutdownTimeout = 10 * time.Second
