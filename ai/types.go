package ai

// NodeSummary describes an existing node to the classifier.
type NodeSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Vision      string   `json:"vision,omitempty"`
	ChildTitles []string `json:"children,omitempty"`
}

// NewItem is the item being placed.
type NewItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Vision      string `json:"vision,omitempty"`
}

// ClassificationRequest is the input to a Classifier.
type ClassificationRequest struct {
	Item  NewItem       `json:"item"`
	Nodes []NodeSummary `json:"nodes"`

	// ConfidenceThreshold is the confidence below which the classifier
	// should prefer creating a new parent or a new root.
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}
