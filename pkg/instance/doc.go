// Package instance defines the statement/entity structure that blocksets
// decomposes.
//
// # Overview
//
// An [Instance] is three mappings: entity id to label, statement id to label,
// and entity id to the ordered list of statements that entity contains. A
// statement may be owned by several entities (that is what makes two entities
// intersect) or by none at all.
//
// Instances are plain values. The splitter treats its input as immutable and
// always allocates fresh instances for its output, so callers may keep using
// the input after a split.
//
// # Ordering
//
// Go maps have no order, so every algorithm that needs one goes through
// [Instance.EntityIDs] and [Instance.StatementIDs], which return ascending
// ids. Ascending entity id is the insertion order used when entities become
// graph nodes.
//
// # Validation
//
// [Instance.Validate] reports structural problems (an entity referencing a
// missing statement, a membership list for an unknown entity) as
// [errors.ErrCodeInvalidInstance] errors. Loading through [Read] or [ReadFile]
// validates automatically.
//
// # JSON Format
//
// [Read] and [Write] use the format of the original layout pipeline:
//
//	{
//	  "statements": [{"id": 1, "text": "..."}],
//	  "entities":   [{"id": 10, "name": "..."}],
//	  "entity_statements": {"10": [1, 2]}
//	}
package instance
