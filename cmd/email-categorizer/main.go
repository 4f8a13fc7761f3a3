package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/di"
	"github.com/mikey/llm-email-categorizer/internal/factory"
	"github.com/mikey/llm-email-categorizer/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	intake ports.EmailIntake,
	models *factory.ModelFactory,
	activity core.ActivityLogger,
) error {
	defer logger.Sync()

	// Start the intake server
	if err := intake.Start(); err != nil {
		logger.Error("Failed to start SMTP intake", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := intake.Stop(); err != nil {
		logger.Error("Failed to stop SMTP intake", zap.Error(err))
	}

	// Close any resources that need closing
	if err := models.Close(); err != nil {
		logger.Error("Failed to close model runtimes", zap.Error(err))
	}
	if closer, ok := activity.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close activity log", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
