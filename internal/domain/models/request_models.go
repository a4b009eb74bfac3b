package models

// ChannelUpdateRequest - тело POST /send
type ChannelUpdateRequest struct {
	Channels []int `json:"channels" binding:"required"`
}

// HistoryQuery - параметры запроса истории телеметрии
type HistoryQuery struct {
	Limit int `form:"limit,default=50" binding:"gte=1,lte=1000"`
}
