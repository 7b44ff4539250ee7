package request

type AdjustStockRequest struct {
	Change *int32 `json:"change" binding:"required"`
}

type LowStockQuery struct {
	Threshold *int32 `form:"threshold"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
	Offset    int    `form:"offset" binding:"omitempty,min=0"`
}
