package model

// Measure names
const (
	MeasureLCH  = "lch"
	MeasurePath = "path"
)

// SenseComparison is the similarity of two senses under one measure
type SenseComparison struct {
	First     *Sense  `json:"first"`
	Second    *Sense  `json:"second"`
	Measure   string  `json:"measure"`
	Score     float64 `json:"score"`
	Distance  float64 `json:"distance"`  // Shortest path weight, only meaningful if Connected
	Connected bool    `json:"connected"` // Whether a path between both senses exists
}
