package models

// Node kinds in the knowledge tree. Folder and document nodes are created
// by the front-end; knowledge nodes are produced by outline extraction.
const (
	NodeKindFolder    = "folder"
	NodeKindDocument  = "document"
	NodeKindKnowledge = "knowledge"
)

// KnowledgeNode is one node of the persistent topic tree. The tree is
// stored flattened: hierarchy lives entirely in ParentID references.
type KnowledgeNode struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	ParentID       string `json:"parentId,omitempty"`
	CreatedAt      string `json:"createdAt"`
	SourceDocument string `json:"sourceDocument,omitempty"`
	SourceLocalID  int    `json:"sourceLocalId,omitempty"`
}

// OutlineItem is one entry of the locally numbered outline returned by the
// extraction oracle. ParentID == -1 marks a root of the outline.
type OutlineItem struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	ParentID int    `json:"parentId"`
}

// KnowledgePoint is the flat projection of a knowledge node used by the
// point-list endpoint and by question generation.
type KnowledgePoint struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	SourceDocument string `json:"sourceDocument"`
	AnchorID       string `json:"anchorId"`
	SourceLocalID  int    `json:"sourceLocalId,omitempty"`
}

// QuestionTypeCount is a per-type generation request: how many questions
// to author at each difficulty.
type QuestionTypeCount struct {
	Type   string `json:"type"`
	Label  string `json:"label"`
	Low    int    `json:"low"`
	Medium int    `json:"medium"`
	High   int    `json:"high"`
}

// HasQuantity reports whether any difficulty carries a positive count.
func (c QuestionTypeCount) HasQuantity() bool {
	return c.Low > 0 || c.Medium > 0 || c.High > 0
}

// SelectedItem is a tree-node reference sent by the front-end when
// requesting question generation. Knowledge items carry their own text and
// source document; document items stand for every knowledge point below
// them.
type SelectedItem struct {
	ID             string              `json:"id"`
	Name           string              `json:"name,omitempty"`
	Kind           string              `json:"kind"`
	Text           string              `json:"text,omitempty"`
	SourceDocument string              `json:"sourceDocument,omitempty"`
	AnchorID       string              `json:"anchorId,omitempty"`
	QuestionTypes  []QuestionTypeCount `json:"questionTypes,omitempty"`
}
