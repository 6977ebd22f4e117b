package response_models

type BatchAuditResult struct {
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type RescanSummary struct {
	Scanned      int  `json:"scanned"`
	Reclassified int  `json:"reclassified"`
	Failed       int  `json:"failed"`
	Aborted      bool `json:"aborted,omitempty"`
}
