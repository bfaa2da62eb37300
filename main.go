package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/gosheets/internal/app"
)

// shutdownTimeout bounds how long queued uploads may keep writing after a
// termination signal.
const shutdownTimeout = 2 * time.Minute

func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx) // Stop the application gracefully
}
