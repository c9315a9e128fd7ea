package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
	loadSql "github.com/siherrmann/metonym/sql"
)

// EdgesDBHandlerFunctions defines the interface for Edges database operations.
type EdgesDBHandlerFunctions interface {
	InsertEdge(edge *model.TaxonomyEdge) error
	SelectEdge(id uuid.UUID) (*model.TaxonomyEdge, error)
	SelectEdgesFromSense(key model.SenseKey) ([]*model.TaxonomyEdge, error)
	SelectEdgesToSense(key model.SenseKey) ([]*model.TaxonomyEdge, error)
	SelectAllEdges() ([]*model.TaxonomyEdge, error)
	DeleteEdge(id uuid.UUID) error
	UpdateEdgeWeight(id uuid.UUID, weight float64) error
}

// EdgesDBHandler handles hypernymy edge database operations
type EdgesDBHandler struct {
	db *helper.Database
}

// NewEdgesDBHandler creates a new edges database handler.
// The edges table references the senses table, so create the SensesDBHandler first.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEdgesDBHandler(db *helper.Database, force bool) (*EdgesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	edgesDbHandler := &EdgesDBHandler{
		db: db,
	}

	err := loadSql.LoadEdgesSql(edgesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load edges sql", err)
	}

	err = edgesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EdgesDBHandler")

	return edgesDbHandler, nil
}

// CreateTable creates the 'edges' table in the database.
// If the table already exists, it does not create it again.
func (h *EdgesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_edges($1);`, h.db.WithTableDrop)
	if err != nil {
		log.Panicf("error initializing edges table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table edges")

	return nil
}

// InsertEdge inserts a new edge. Inserting an existing source and target pair keeps the lighter weight.
func (h *EdgesDBHandler) InsertEdge(edge *model.TaxonomyEdge) error {
	if math.IsNaN(edge.Weight) || math.IsInf(edge.Weight, 0) || edge.Weight < 0 {
		return helper.NewError("validate weight", fmt.Errorf("invalid weight %v for edge %s -> %s", edge.Weight, edge.Source, edge.Target))
	}
	if edge.Source == edge.Target {
		return helper.NewError("validate edge", fmt.Errorf("self loop on %s", edge.Source))
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_edge($1, $2, $3, $4)`,
		edge.Source,
		edge.Target,
		edge.Weight,
		edge.Metadata,
	)

	err := scanEdgeInto(row, edge)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEdge retrieves an edge by ID
func (h *EdgesDBHandler) SelectEdge(id uuid.UUID) (*model.TaxonomyEdge, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_edge($1)`,
		id,
	)

	edge := &model.TaxonomyEdge{}
	err := scanEdgeInto(row, edge)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("scan", fmt.Errorf("%w: %s", model.ErrEdgeNotFound, id))
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return edge, nil
}

// SelectEdgesFromSense retrieves the edges to the direct hyponyms of a sense
func (h *EdgesDBHandler) SelectEdgesFromSense(key model.SenseKey) ([]*model.TaxonomyEdge, error) {
	return h.selectEdges(context.Background(), `SELECT * FROM select_edges_from_sense($1)`, key.String())
}

// SelectEdgesToSense retrieves the edges from the direct hypernyms of a sense
func (h *EdgesDBHandler) SelectEdgesToSense(key model.SenseKey) ([]*model.TaxonomyEdge, error) {
	return h.selectEdges(context.Background(), `SELECT * FROM select_edges_to_sense($1)`, key.String())
}

// SelectAllEdges retrieves all edges
func (h *EdgesDBHandler) SelectAllEdges() ([]*model.TaxonomyEdge, error) {
	return h.selectEdges(context.Background(), `SELECT * FROM select_all_edges()`)
}

func (h *EdgesDBHandler) selectEdges(ctx context.Context, query string, args ...interface{}) ([]*model.TaxonomyEdge, error) {
	rows, err := h.db.Instance.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var edges []*model.TaxonomyEdge
	for rows.Next() {
		edge := &model.TaxonomyEdge{}
		err := scanEdgeInto(rows, edge)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		edges = append(edges, edge)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return edges, nil
}

// DeleteEdge deletes an edge by ID
func (h *EdgesDBHandler) DeleteEdge(id uuid.UUID) error {
	var deleted int
	err := h.db.Instance.QueryRow(
		`SELECT delete_edge($1)`,
		id,
	).Scan(&deleted)
	if err != nil {
		return helper.NewError("exec", err)
	}
	if deleted == 0 {
		return helper.NewError("delete", fmt.Errorf("%w: %s", model.ErrEdgeNotFound, id))
	}
	return nil
}

// UpdateEdgeWeight updates the weight of an edge
func (h *EdgesDBHandler) UpdateEdgeWeight(id uuid.UUID, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return helper.NewError("validate weight", fmt.Errorf("invalid weight %v", weight))
	}

	edge := &model.TaxonomyEdge{}
	err := scanEdgeInto(h.db.Instance.QueryRow(
		`SELECT * FROM update_edge_weight($1, $2)`,
		id,
		weight,
	), edge)
	if errors.Is(err, sql.ErrNoRows) {
		return helper.NewError("update", fmt.Errorf("%w: %s", model.ErrEdgeNotFound, id))
	}
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func scanEdgeInto(row rowScanner, edge *model.TaxonomyEdge) error {
	return row.Scan(
		&edge.ID,
		&edge.Source,
		&edge.Target,
		&edge.Weight,
		&edge.Metadata,
		&edge.CreatedAt,
	)
}
