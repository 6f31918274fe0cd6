package domain

import "time"

// RecallInfo is the recall-registry verdict for a scanned product.
// Immutable once constructed.
type RecallInfo struct {
	IsRecalled   bool   `json:"is_recalled"`
	ProductName  string `json:"product_name"`
	Manufacturer string `json:"manufacturer,omitempty"`
	LotNumber    string `json:"lot_number,omitempty"`
	RecallDate   string `json:"recall_date,omitempty"`
	RecallReason string `json:"recall_reason,omitempty"`
}

// NutritionalInfo holds free-text nutrition values as the vision model
// reported them. Values are not normalized to numeric units; a field the
// model did not provide carries the NotAvailable sentinel.
type NutritionalInfo struct {
	Calories string `json:"calories"`
	Fats     string `json:"fats"`
	Carbs    string `json:"carbs"`
	Proteins string `json:"proteins"`
}

// NotAvailable marks a nutrition field the extractor could not recover.
const NotAvailable = "Not available"

// ProductAnalysis is the pipeline output for a single image. ImageURI is the
// durable reference produced by media ingestion; it may be a data: URI when
// the object store was unavailable, or empty when the pipeline failed before
// the upload step.
type ProductAnalysis struct {
	ProductName string           `json:"product_name"`
	Description string           `json:"description"`
	Nutrition   *NutritionalInfo `json:"nutrition,omitempty"`
	ImageURI    string           `json:"image_uri,omitempty"`
}

// ProductDetails is one persisted scan record. Written once, never mutated
// after creation except for a recall re-check, and owned by the user who
// created it.
type ProductDetails struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	RecallInfo  RecallInfo       `json:"recall_info"`
	Nutrition   *NutritionalInfo `json:"nutrition,omitempty"`
	Description string           `json:"description,omitempty"`
	ImageURI    string           `json:"image_uri,omitempty"`
	ScanDate    time.Time        `json:"scan_date"`
	CreatedAt   time.Time        `json:"created_at"`
}

// VisionAnalysis is the raw outcome of the resilient describe call: the
// model's free-text answer plus the durable image reference produced on the
// way.
type VisionAnalysis struct {
	Text     string
	ImageURI string
}

// RecallNotice is one entry in the recall registry.
type RecallNotice struct {
	ProductName  string `json:"product_name"`
	Manufacturer string `json:"manufacturer"`
	LotNumber    string `json:"lot_number"`
	RecallDate   string `json:"recall_date"`
	Reason       string `json:"reason"`
}
