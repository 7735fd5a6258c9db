package mcp

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	seedling "github.com/seedling-app/seedling/pkg"
	pkgdb "github.com/seedling-app/seedling/pkg/db"
	"github.com/seedling-app/seedling/pkg/notify"
	"github.com/seedling-app/seedling/pkg/utils"
)

// SeedlingMCPServer bundles the MCP server, the store connection and
// the reminder scheduler.
type SeedlingMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	scheduler *notify.Scheduler
	DbPath    string
}

// NewSeedlingMCPServer spins up an MCP server backed by the SQLite database at dbPath.
func NewSeedlingMCPServer(dbPath string, enableWAL bool, syncPragma string) (*SeedlingMCPServer, error) {
	resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, err
	}

	// Create base MCP server.
	s := server.NewMCPServer(
		"Seedling MCP Server",
		seedling.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	dbConn, err := pkgdb.OpenDBConnection(resolvedPath, enableWAL, syncPragma)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Automatically initialize or migrate the database schema.
	if err := pkgdb.UpgradeDB(dbConn, resolvedPath, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", resolvedPath, err)
	}

	return &SeedlingMCPServer{
		mcpServer: s,
		db:        dbConn,
		scheduler: notify.NewScheduler(dbConn, notify.StderrNotifier),
		DbPath:    resolvedPath,
	}, nil
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *SeedlingMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// DB returns the underlying *sql.DB.
func (s *SeedlingMCPServer) DB() *sql.DB {
	return s.db
}

// Scheduler returns the reminder scheduler bound to this server's store.
func (s *SeedlingMCPServer) Scheduler() *notify.Scheduler {
	return s.scheduler
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *SeedlingMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close cleans up allocated resources.
func (s *SeedlingMCPServer) Close() error {
	s.scheduler.Close()
	if s.db != nil {
		// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
		_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: WAL checkpoint failed during close: %v\n", err)
		}
		return s.db.Close()
	}
	return nil
}
