package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphConfig holds the connection settings for the Neo4j store.
type GraphConfig struct {
	// URI is the bolt/neo4j connection URI, e.g. "neo4j+s://host:7687".
	URI string `json:"uri" yaml:"uri"`

	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`

	// Database selects the target database. Empty uses the server default.
	Database string `json:"database" yaml:"database"`
}

// Graph is the Neo4j-backed Querier.
type Graph struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewGraph connects to the graph database and verifies connectivity.
func NewGraph(ctx context.Context, cfg GraphConfig) (*Graph, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("graph store: uri is required")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating graph driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verifying graph connectivity: %w", err)
	}

	return &Graph{driver: driver, database: cfg.Database}, nil
}

// Query runs a read query in a managed transaction and collects all rows.
func (g *Graph) Query(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: g.database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		var rows []Row
		for res.Next(ctx) {
			rows = append(rows, res.Record().AsMap())
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graph query: %w", err)
	}

	rows, _ := out.([]Row)
	return rows, nil
}

// Close releases the underlying driver.
func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}
