package merge

import (
	"fmt"
	"log"

	"doc2quiz-service/internal/models"

	"github.com/google/uuid"
)

// DanglingParentError reports an outline item whose parentId points at a
// local id that never appears in the outline. The outline is malformed;
// nothing gets merged.
type DanglingParentError struct {
	ItemID   int
	ParentID int
}

func (e *DanglingParentError) Error() string {
	return fmt.Sprintf("outline item %d references unknown parent %d", e.ItemID, e.ParentID)
}

// Result is the outcome of splicing one outline into the tree.
type Result struct {
	Nodes  []models.KnowledgeNode
	Merged int
}

// Splice merges a locally numbered outline into the tree under the anchor
// node, replacing any earlier outline extracted from the same document
// under the same anchor. The returned node list is the complete new tree;
// the caller persists it.
//
// A missing anchor is a reported no-op: the tree comes back untouched with
// zero merged.
func Splice(nodes []models.KnowledgeNode, outline []models.OutlineItem, anchorID, sourceDocument string) (Result, error) {
	if !containsNode(nodes, anchorID) {
		log.Printf("Anchor node not found, nothing merged: %s", anchorID)
		return Result{Nodes: nodes}, nil
	}

	// Drop the previous outline for this (anchor, document) pair so that
	// re-running extraction replaces its topics instead of duplicating.
	kept := make([]models.KnowledgeNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == models.NodeKindKnowledge && n.ParentID == anchorID && n.SourceDocument == sourceDocument {
			continue
		}
		kept = append(kept, n)
	}

	// Allocate every id before wiring parents: an outline item may point
	// at a sibling that appears later in the list.
	idMap := make(map[int]string, len(outline))
	for _, item := range outline {
		idMap[item.ID] = uuid.NewString()
	}

	createdAt := models.Timestamp()
	fresh := make([]models.KnowledgeNode, 0, len(outline))
	for _, item := range outline {
		parentID := anchorID
		if item.ParentID != -1 {
			mapped, ok := idMap[item.ParentID]
			if !ok {
				return Result{}, &DanglingParentError{ItemID: item.ID, ParentID: item.ParentID}
			}
			parentID = mapped
		}
		fresh = append(fresh, models.KnowledgeNode{
			ID:             idMap[item.ID],
			Name:           item.Text,
			Kind:           models.NodeKindKnowledge,
			ParentID:       parentID,
			CreatedAt:      createdAt,
			SourceDocument: sourceDocument,
			SourceLocalID:  item.ID,
		})
	}

	log.Printf("Merged %d outline items under %s from %s", len(fresh), anchorID, sourceDocument)
	return Result{Nodes: append(kept, fresh...), Merged: len(fresh)}, nil
}

func containsNode(nodes []models.KnowledgeNode, id string) bool {
	for _, n := range nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
