package request_models

type AuditCheckinRequest struct {
	Status string `json:"status" binding:"required"`
	Remark string `json:"remark" binding:"required"`
}

type BatchAuditRequest struct {
	IDs    []int64 `json:"ids" binding:"required,min=1"`
	Status string  `json:"status" binding:"required"`
	Remark string  `json:"remark" binding:"required"`
}
