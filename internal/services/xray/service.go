package xray

import (
	"github.com/ternarybob/arbor"

	"github.com/bikeracer4487/xray-mcp/internal/interfaces"
)

// Service exposes the Xray test management operations backed by the GraphQL
// API. Methods are grouped by entity across the files of this package
// (tests.go, executions.go, plans.go, ...).
type Service struct {
	client   interfaces.GraphQLExecutor
	resolver interfaces.IssueResolver
	logger   arbor.ILogger
}

// NewService creates the Xray domain service.
func NewService(client interfaces.GraphQLExecutor, resolver interfaces.IssueResolver, logger arbor.ILogger) *Service {
	return &Service{
		client:   client,
		resolver: resolver,
		logger:   logger,
	}
}
