// Package archive records every split and decomposition run so results can
// be looked up later by id.
//
// Backends implement [Store]:
//   - [FileStore]: JSON files in a directory, for the CLI
//   - [MongoStore]: a MongoDB collection, for the API server
//   - [MemoryStore]: in-process, for tests and ephemeral servers
//
// # Usage
//
//	store, err := archive.NewFileStore("")  // ~/.local/share/blocksets/runs
//	run := archive.NewRun(archive.KindSplit, instanceHash)
//	run.Entities, run.Statements = inst.Size()
//	if err := store.Save(ctx, run); err != nil {
//	    return err
//	}
//	got, err := store.Get(ctx, run.ID)
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Kind is the pipeline stage a run executed.
type Kind string

const (
	KindSplit     Kind = "split"
	KindDecompose Kind = "decompose"
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Params are the options a run used.
type Params struct {
	MaxDeletions  int     `json:"max_deletions" bson:"max_deletions"`
	SplitRatio    float64 `json:"split_ratio" bson:"split_ratio"`
	MaxEntities   int     `json:"max_entities,omitempty" bson:"max_entities,omitempty"`
	MaxStatements int     `json:"max_statements,omitempty" bson:"max_statements,omitempty"`
	MaxRounds     int     `json:"max_rounds,omitempty" bson:"max_rounds,omitempty"`
}

// Part summarises one output part of a run.
type Part struct {
	Entities     []int `json:"entities" bson:"entities"`
	Statements   int   `json:"statements" bson:"statements"`
	Depth        int   `json:"depth,omitempty" bson:"depth,omitempty"`
	Unsplittable bool  `json:"unsplittable,omitempty" bson:"unsplittable,omitempty"`
}

// Run is one archived pipeline execution.
type Run struct {
	ID           string `json:"id" bson:"_id"`
	Kind         Kind   `json:"kind" bson:"kind"`
	InstanceHash string `json:"instance_hash" bson:"instance_hash"`
	Params       Params `json:"params" bson:"params"`

	Entities   int `json:"entities" bson:"entities"`
	Statements int `json:"statements" bson:"statements"`

	Parts      []Part  `json:"parts" bson:"parts"`
	Deleted    []int   `json:"deleted" bson:"deleted"`
	Cost       float64 `json:"cost,omitempty" bson:"cost,omitempty"`
	Rounds     int     `json:"rounds,omitempty" bson:"rounds,omitempty"`
	Degenerate bool    `json:"degenerate,omitempty" bson:"degenerate,omitempty"`
	Truncated  bool    `json:"truncated,omitempty" bson:"truncated,omitempty"`
	Cached     bool    `json:"cached,omitempty" bson:"cached,omitempty"`

	Duration  time.Duration `json:"duration" bson:"duration"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// NewRun creates a run with a fresh id and the current time.
func NewRun(kind Kind, instanceHash string) *Run {
	return &Run{
		ID:           uuid.NewString(),
		Kind:         kind,
		InstanceHash: instanceHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Store is the interface for run archive backends.
type Store interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by id. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Close releases backend resources.
	Close() error
}

// ValidID reports whether id is a well-formed run id.
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
