package export

// DeliveryResult is the outcome of a single export.
//
// Canceled is a terminal outcome distinct from failure: Success is false and
// Error is empty. Rejected is set when another export was still in flight.
type DeliveryResult struct {
	Success  bool   `json:"success"`
	Canceled bool   `json:"canceled,omitempty"`
	Rejected bool   `json:"rejected,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ItemResult is the outcome of writing one batch item.
type ItemResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath,omitempty"`
	Error    string `json:"error,omitempty"`
	Name     string `json:"name"`
}

// BatchResult is the outcome of a batch export. Success reports that the batch
// ran, not that every item was written; see Results for per-item outcomes.
type BatchResult struct {
	Success  bool         `json:"success"`
	Canceled bool         `json:"canceled,omitempty"`
	Rejected bool         `json:"rejected,omitempty"`
	Error    string       `json:"error,omitempty"`
	Results  []ItemResult `json:"results,omitempty"`
}

// Written returns the number of items that were written.
func (r BatchResult) Written() int {
	n := 0
	for _, item := range r.Results {
		if item.Success {
			n++
		}
	}
	return n
}

func failed(err error) DeliveryResult {
	return DeliveryResult{Error: err.Error()}
}
