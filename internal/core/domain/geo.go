package domain

import "time"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NearbyStation is a station together with its distance to a query point.
type NearbyStation struct {
	Feature  Feature `json:"feature"`
	Distance float64 `json:"distance"` // meters
}

// DatasetAlert is emitted when the served dataset cannot be used.
type DatasetAlert struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
