package models

// SignalsRequest filters the recent-signal feed.
type SignalsRequest struct {
	Limit int `query:"limit" default:"50" validate:"min=1,max=500"`
}

// CandlesRequest selects archived chart history.
type CandlesRequest struct {
	Symbol   string `query:"symbol" validate:"required"`
	Interval string `query:"interval" default:"1h"`
	From     string `query:"from"`
	To       string `query:"to"`
	Limit    int    `query:"limit" default:"500" validate:"min=1,max=5000"`
}
