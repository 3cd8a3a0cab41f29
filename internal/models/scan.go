package models

// ScanHints are the textual hints read off a card image. Blank fields are ignored.
type ScanHints struct {
	CardName   string `json:"card_name"`
	CardNumber string `json:"card_number"`
	SetCode    string `json:"set_code"`
}

type ScanCandidate struct {
	Card       Card    `json:"card"`
	Confidence float64 `json:"confidence"`
}

// ScanResult is the identity matcher's answer. Card is set only when Matched;
// Candidates only when the top score is ambiguous.
type ScanResult struct {
	Matched    bool            `json:"matched"`
	Confidence float64         `json:"confidence"`
	Card       *Card           `json:"card"`
	Candidates []ScanCandidate `json:"candidates"`
}

// ScanRequest accepts either structured hints or raw recognized text. Text,
// when present, is parsed into hints server-side.
type ScanRequest struct {
	ScanHints
	Text string `json:"text"`
}

// ScanResponse is returned by the scan endpoint; CollectionItem is set when a
// confident match was added to the caller's collection.
type ScanResponse struct {
	ScanResult
	Hints          ScanHints       `json:"hints"`
	CollectionItem *CollectionItem `json:"collection_item,omitempty"`
}

type ConfirmScanRequest struct {
	CardID string `json:"card_id" binding:"required"`
}
