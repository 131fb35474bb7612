package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bikeracer4487/xray-mcp/internal/common"
	"github.com/bikeracer4487/xray-mcp/internal/services/xray"
)

var (
	configFile   = flag.String("config", "", "Configuration file path (optional)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Println(common.GetFullVersion())
		return
	}

	configPath := *configFile
	if configPath == "" {
		configPath = os.Getenv("XRAY_CONFIG")
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging by default so MCP stdio framing stays clean.
	logger := common.InitLogger(config)

	// Composition root: one credentials value, one auth manager, one GraphQL
	// client, one resolver, shared by every tool.
	authManager := xray.NewAuthManager(config.Xray, logger)
	graphqlClient := xray.NewGraphQLClient(config.Xray.BaseURL, authManager, logger)
	resolver := xray.NewIssueResolver(graphqlClient, logger)
	service := xray.NewService(graphqlClient, resolver, logger)

	mcpServer := server.NewMCPServer(
		"xray-mcp",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	registerTools(mcpServer, service, logger)

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
