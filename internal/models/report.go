package models

import "time"

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportProcessed ReportStatus = "processed"
)

// PriceReport is the raw user submission, kept verbatim for audit purposes.
// The authoritative price derived from it lives in GasPrice.
type PriceReport struct {
	Id            string       `json:"id"`
	GasStationId  string       `json:"gas_station_id"`
	FuelType      FuelType     `json:"fuel_type"`
	ReportedPrice float64      `json:"reported_price"`
	Comments      string       `json:"comments,omitempty"`
	PumpNumber    *int         `json:"pump_number,omitempty"`
	ReporterName  string       `json:"reporter_name,omitempty"`
	ReporterIp    string       `json:"-"`
	Status        ReportStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// PriceReportRequest is the inbound submission shape, pre-validation.
type PriceReportRequest struct {
	GasStationId  string  `json:"gas_station_id" form:"gas_station_id" binding:"required"`
	FuelType      string  `json:"fuel_type" form:"fuel_type" binding:"required"`
	ReportedPrice float64 `json:"reported_price" form:"reported_price" binding:"required"`
	Comments      string  `json:"comments" form:"comments"`
	PumpNumber    *int    `json:"pump_number" form:"pump_number"`
	ReporterName  string  `json:"reporter_name" form:"reporter_name"`
}

type PriceReportResponse struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	ReportId       string  `json:"report_id"`
	PriceId        string  `json:"price_id"`
	GasStationName string  `json:"gas_station_name"`
	FuelType       string  `json:"fuel_type"`
	ReportedPrice  float64 `json:"reported_price"`
	Status         string  `json:"status"`
}
