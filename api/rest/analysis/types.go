package analysis

// Request is the body of both status and analyze calls
type Request struct {
	TxHash string `json:"txHash" binding:"required"`
}

// ChronicleView is the stored chronicle as returned to the client
type ChronicleView struct {
	Narrative string `json:"narrative"`
	Requester string `json:"requester"`
	Timestamp uint64 `json:"timestamp"`
}

// StatusResponse answers a chronicle status check
type StatusResponse struct {
	ChronicleExists bool           `json:"chronicleExists"`
	RequestPending  bool           `json:"requestPending"`
	Chronicle       *ChronicleView `json:"chronicle"`
	Requester       *string        `json:"requester"`
	SubmissionFee   string         `json:"submissionFee"`
}

// AnalyzeResponse reports a completed (or short-circuited) analysis
type AnalyzeResponse struct {
	Message         string `json:"message"`
	Narrative       string `json:"narrative,omitempty"`
	ChronicleTxHash string `json:"chronicleTxHash,omitempty"`
}

// analyzeError is the failure body; Narrative is set when a narrative was
// generated but the on-chain commit failed
type analyzeError struct {
	Message   string `json:"message"`
	Error     string `json:"error"`
	Narrative string `json:"narrative,omitempty"`
}
