package models

// SyncRequest triggers a portfolio refresh.
type SyncRequest struct {
	UserID string `json:"user_id" query:"user_id" default:"default" validate:"required,min=1,max=64"`
}

// SentimentRequest looks up cached sentiment for one symbol.
type SentimentRequest struct {
	Symbol string `param:"symbol" validate:"required,min=1,max=12"`
}

// CacheClearRequest busts cache entries by prefix (empty clears everything).
type CacheClearRequest struct {
	Prefix string `query:"prefix" validate:"max=64"`
}

// AdvisorRequest asks for AI investment suggestions.
type AdvisorRequest struct {
	UserID    string `json:"user_id" default:"default" validate:"required,min=1,max=64"`
	RiskLevel string `json:"risk_level" default:"moderate" validate:"oneof=conservative moderate aggressive"`
}
