package httpx

import (
	"encoding/json"
	"time"
)

// AddItemRequest carries either a catalog dish id or a free-form item. Price is
// kept raw so a non-integer value is ignored instead of failing the request.
type AddItemRequest struct {
	DishID  string          `json:"dish_id,omitempty"`
	Name    string          `json:"name,omitempty"`
	Price   json.RawMessage `json:"price,omitempty"`
	Options string          `json:"options,omitempty"`
}

type CustomizationRequest struct {
	Style       string `json:"style"`
	Rice        string `json:"rice"`
	NoSalad     bool   `json:"no_salad"`
	NoPatacones bool   `json:"no_patacones"`
	ExtraLime   bool   `json:"extra_lime"`
	Notes       string `json:"notes"`
	Cut         string `json:"cut"`
}

type QuantityRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

type CartResponse struct {
	SessionID     string           `json:"session_id"`
	Applied       bool             `json:"applied"`
	Lines         []LineResponse   `json:"lines"`
	TotalQuantity int              `json:"total_quantity"`
	TotalPrice    int64            `json:"total_price"`
	TotalLabel    string           `json:"total_label"`
	CountLabel    string           `json:"count_label"`
	IsEmpty       bool             `json:"is_empty"`
	Toasts        []string         `json:"toasts,omitempty"`
	Pending       *PendingResponse `json:"pending,omitempty"`
	Summary       *SummaryResponse `json:"summary,omitempty"`
}

type LineResponse struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Options        string `json:"options,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
	UnitPriceLabel string `json:"unit_price_label"`
	LineTotal      int64  `json:"line_total"`
	LineTotalLabel string `json:"line_total_label"`
}

type PendingResponse struct {
	Name             string `json:"name"`
	BasePrice        int64  `json:"base_price"`
	RiceApplicable   bool   `json:"rice_applicable"`
	StyleApplicable  bool   `json:"style_applicable"`
	CutApplicable    bool   `json:"cut_applicable"`
	CoconutSurcharge int64  `json:"coconut_surcharge,omitempty"`
	SurchargeNote    string `json:"surcharge_note,omitempty"`
}

type SummaryResponse struct {
	Mode          string `json:"mode"`
	Text          string `json:"text"`
	Link          string `json:"link,omitempty"`
	TotalQuantity int    `json:"total_quantity"`
	Total         int64  `json:"total"`
	TotalLabel    string `json:"total_label"`
}

type MenuResponse struct {
	Categories []string          `json:"categories"`
	Sections   []SectionResponse `json:"sections"`
}

type SectionResponse struct {
	Category string         `json:"category"`
	Title    string         `json:"title"`
	Dishes   []DishResponse `json:"dishes"`
}

type DishResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        int64  `json:"price"`
	PriceLabel   string `json:"price_label"`
	Customizable bool   `json:"customizable"`
}

type DispatchResponse struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Channel       string    `json:"channel"`
	Message       string    `json:"message"`
	Link          string    `json:"link,omitempty"`
	TotalQuantity int       `json:"total_quantity"`
	Total         int64     `json:"total"`
	TotalLabel    string    `json:"total_label"`
	TraceID       string    `json:"trace_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	// Count is the number of orders the session has handed off so far.
	Count int `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
