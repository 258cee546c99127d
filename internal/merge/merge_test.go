package merge

import (
	"errors"
	"testing"

	"doc2quiz-service/internal/models"
)

func baseTree() []models.KnowledgeNode {
	return []models.KnowledgeNode{
		{ID: "root", Name: "Course", Kind: models.NodeKindFolder},
		{ID: "doc-1", Name: "Chapter 1", Kind: models.NodeKindDocument, ParentID: "root"},
	}
}

func outlineXY() []models.OutlineItem {
	return []models.OutlineItem{
		{ID: 1, Text: "X", ParentID: -1},
		{ID: 2, Text: "Y", ParentID: 1},
	}
}

func TestSpliceMissingAnchorIsNoOp(t *testing.T) {
	tree := baseTree()

	result, err := Splice(tree, outlineXY(), "missing", "a.pdf")
	if err != nil {
		t.Fatalf("Splice failed: %v", err)
	}
	if result.Merged != 0 {
		t.Errorf("Expected 0 merged for a missing anchor, got %d", result.Merged)
	}
	if len(result.Nodes) != len(tree) {
		t.Errorf("Expected the tree untouched, got %d nodes", len(result.Nodes))
	}
}

func TestSpliceIDMappingRoundTrip(t *testing.T) {
	result, err := Splice(baseTree(), outlineXY(), "doc-1", "a.pdf")
	if err != nil {
		t.Fatalf("Splice failed: %v", err)
	}
	if result.Merged != 2 {
		t.Fatalf("Expected 2 merged nodes, got %d", result.Merged)
	}

	var nodeX, nodeY *models.KnowledgeNode
	for i := range result.Nodes {
		switch result.Nodes[i].Name {
		case "X":
			nodeX = &result.Nodes[i]
		case "Y":
			nodeY = &result.Nodes[i]
		}
	}
	if nodeX == nil || nodeY == nil {
		t.Fatalf("Expected nodes X and Y in the tree, got %+v", result.Nodes)
	}

	if nodeX.ParentID != "doc-1" {
		t.Errorf("Expected outline root X anchored to doc-1, got %q", nodeX.ParentID)
	}
	// Y's parent must be X's freshly generated id, never the local id "1".
	if nodeY.ParentID != nodeX.ID {
		t.Errorf("Expected Y's parent %q to be X's new id %q", nodeY.ParentID, nodeX.ID)
	}
	if nodeX.ID == "1" || nodeY.ParentID == "1" {
		t.Error("Expected local outline ids not to leak into the tree")
	}

	if nodeX.Kind != models.NodeKindKnowledge {
		t.Errorf("Expected knowledge kind, got %q", nodeX.Kind)
	}
	if nodeX.SourceDocument != "a.pdf" || nodeX.SourceLocalID != 1 {
		t.Errorf("Expected source metadata retained, got %+v", nodeX)
	}
	if nodeX.CreatedAt == "" {
		t.Error("Expected a createdAt stamp")
	}
}

func TestSpliceForwardParentReference(t *testing.T) {
	// The child appears before its parent in the outline; ids are mapped
	// for the whole outline before any wiring, so this must work.
	outline := []models.OutlineItem{
		{ID: 2, Text: "child", ParentID: 1},
		{ID: 1, Text: "parent", ParentID: -1},
	}

	result, err := Splice(baseTree(), outline, "doc-1", "a.pdf")
	if err != nil {
		t.Fatalf("Splice failed: %v", err)
	}

	var parent, child *models.KnowledgeNode
	for i := range result.Nodes {
		switch result.Nodes[i].Name {
		case "parent":
			parent = &result.Nodes[i]
		case "child":
			child = &result.Nodes[i]
		}
	}
	if parent == nil || child == nil {
		t.Fatal("Expected both outline nodes merged")
	}
	if child.ParentID != parent.ID {
		t.Errorf("Expected forward reference resolved to %q, got %q", parent.ID, child.ParentID)
	}
}

func TestSpliceReplacesPriorOutline(t *testing.T) {
	first, err := Splice(baseTree(), outlineXY(), "doc-1", "a.pdf")
	if err != nil {
		t.Fatalf("First splice failed: %v", err)
	}

	// Re-extracting the same document replaces its topics under the
	// anchor instead of duplicating them.
	second, err := Splice(first.Nodes, outlineXY(), "doc-1", "a.pdf")
	if err != nil {
		t.Fatalf("Second splice failed: %v", err)
	}
	if second.Merged != 2 {
		t.Errorf("Expected 2 merged on re-extraction, got %d", second.Merged)
	}
	if len(second.Nodes) != len(first.Nodes) {
		t.Errorf("Expected an idempotent node count, got %d then %d", len(first.Nodes), len(second.Nodes))
	}
}

func TestSpliceKeepsOtherDocumentsOutline(t *testing.T) {
	first, err := Splice(baseTree(), outlineXY(), "doc-1", "a.pdf")
	if err != nil {
		t.Fatalf("First splice failed: %v", err)
	}

	second, err := Splice(first.Nodes, []models.OutlineItem{{ID: 1, Text: "Z", ParentID: -1}}, "doc-1", "b.pdf")
	if err != nil {
		t.Fatalf("Second splice failed: %v", err)
	}

	// a.pdf's two nodes plus b.pdf's one, under the same anchor.
	if len(second.Nodes) != len(baseTree())+3 {
		t.Errorf("Expected outlines from different documents to coexist, got %d nodes", len(second.Nodes))
	}
}

func TestSpliceDanglingParent(t *testing.T) {
	outline := []models.OutlineItem{
		{ID: 1, Text: "ok", ParentID: -1},
		{ID: 2, Text: "broken", ParentID: 99},
	}

	_, err := Splice(baseTree(), outline, "doc-1", "a.pdf")
	if err == nil {
		t.Fatal("Expected an error for a dangling local parent")
	}

	var dangling *DanglingParentError
	if !errors.As(err, &dangling) {
		t.Fatalf("Expected DanglingParentError, got %T: %v", err, err)
	}
	if dangling.ItemID != 2 || dangling.ParentID != 99 {
		t.Errorf("Expected item 2 referencing parent 99, got %+v", dangling)
	}
}
