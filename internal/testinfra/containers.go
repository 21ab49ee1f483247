// Package testinfra starts the throwaway browsers used by integration tests.
package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	ChromeImage = "chromedp/headless-shell:latest"

	devToolsPort = "9222/tcp"
)

// ChromeContainer is a headless Chrome reachable over the DevTools protocol.
type ChromeContainer struct {
	*testcontainers.DockerContainer

	// DevToolsURL is the http:// endpoint to hand to a remote allocator.
	DevToolsURL string
}

// StartChrome runs ChromeImage and waits until its DevTools endpoint answers.
func StartChrome(ctx context.Context) (*ChromeContainer, error) {
	ctr, err := testcontainers.Run(ctx,
		ChromeImage,
		testcontainers.WithExposedPorts(devToolsPort),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/json/version").
				WithPort(devToolsPort).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	endpoint, err := ctr.PortEndpoint(ctx, devToolsPort, "http")
	if err != nil {
		testcontainers.TerminateContainer(ctr) //nolint:errcheck
		return nil, fmt.Errorf("get devtools endpoint: %w", err)
	}

	return &ChromeContainer{DockerContainer: ctr, DevToolsURL: endpoint}, nil
}

// Close stops and removes the container.
func (c *ChromeContainer) Close() error {
	return testcontainers.TerminateContainer(c.DockerContainer)
}
