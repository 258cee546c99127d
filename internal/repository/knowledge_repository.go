package repository

import (
	"log"

	"doc2quiz-service/internal/models"
	"doc2quiz-service/internal/storage"
)

type KnowledgeRepository struct {
	Store *storage.Store
}

func NewKnowledgeRepository(store *storage.Store) *KnowledgeRepository {
	return &KnowledgeRepository{Store: store}
}

func (r *KnowledgeRepository) Load() []models.KnowledgeNode {
	var nodes []models.KnowledgeNode
	r.Store.Load(storage.KnowledgeTree, &nodes)
	return nodes
}

func (r *KnowledgeRepository) Save(nodes []models.KnowledgeNode) error {
	if err := r.Store.Save(storage.KnowledgeTree, nodes); err != nil {
		return err
	}
	log.Printf("Knowledge tree saved, %d nodes", len(nodes))
	return nil
}

// Replace overwrites the whole stored tree with the given flat node list.
func (r *KnowledgeRepository) Replace(nodes []models.KnowledgeNode) error {
	mu := r.Store.Mutex(storage.KnowledgeTree)
	mu.Lock()
	defer mu.Unlock()
	return r.Save(nodes)
}

// FindNode returns the first node with the given id, or nil.
func FindNode(nodes []models.KnowledgeNode, id string) *models.KnowledgeNode {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

// Descendants returns the ids of every node reachable from rootID through
// ParentID edges. The root itself is not part of the result. A cycle in
// the stored tree is logged and skipped instead of recursing forever.
func Descendants(nodes []models.KnowledgeNode, rootID string) map[string]struct{} {
	children := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}

	descendants := make(map[string]struct{})
	visited := map[string]struct{}{rootID: {}}
	stack := []string{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range children[id] {
			if _, seen := visited[child]; seen {
				log.Printf("Cycle detected in knowledge tree at node %s, skipping", child)
				continue
			}
			visited[child] = struct{}{}
			descendants[child] = struct{}{}
			stack = append(stack, child)
		}
	}
	return descendants
}

// DeleteSubtree removes every descendant of rootID and reports how many
// nodes were deleted. The root node itself stays.
func (r *KnowledgeRepository) DeleteSubtree(rootID string) (int, error) {
	mu := r.Store.Mutex(storage.KnowledgeTree)
	mu.Lock()
	defer mu.Unlock()

	nodes := r.Load()
	if len(nodes) == 0 {
		return 0, nil
	}

	doomed := Descendants(nodes, rootID)
	if len(doomed) == 0 {
		return 0, nil
	}

	remaining := make([]models.KnowledgeNode, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := doomed[n.ID]; !ok {
			remaining = append(remaining, n)
		}
	}

	if err := r.Save(remaining); err != nil {
		return 0, err
	}
	log.Printf("Deleted %d nodes below %s", len(doomed), rootID)
	return len(doomed), nil
}

// KnowledgePoints projects the knowledge nodes into their flat point form.
// With an anchor id only that anchor's direct children are returned.
func (r *KnowledgeRepository) KnowledgePoints(anchorID string) []models.KnowledgePoint {
	nodes := r.Load()
	points := make([]models.KnowledgePoint, 0)
	for _, n := range nodes {
		if n.Kind != models.NodeKindKnowledge {
			continue
		}
		if anchorID != "" && n.ParentID != anchorID {
			continue
		}
		points = append(points, models.KnowledgePoint{
			ID:             n.ID,
			Text:           n.Name,
			SourceDocument: n.SourceDocument,
			AnchorID:       n.ParentID,
			SourceLocalID:  n.SourceLocalID,
		})
	}
	return points
}
