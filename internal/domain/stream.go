package domain

import "encoding/json"

// StreamKey identifies a stream within one iteration. Param is only set for
// parameterized families, where one report carries many blocks of the same
// family (e.g. one latency table per working-set size).
type StreamKey struct {
	Family string
	Param  string
}

func (k StreamKey) String() string {
	if k.Param == "" {
		return k.Family
	}
	return k.Family + "_" + k.Param
}

func (k StreamKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Point is one row of a stream table: (x, y) or (x, y, z).
type Point struct {
	X    float64
	Y    float64
	Z    float64
	HasZ bool
}

func Point2(x, y float64) Point {
	return Point{X: x, Y: y}
}

func Point3(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z, HasZ: true}
}

func (p Point) MarshalJSON() ([]byte, error) {
	if p.HasZ {
		return json.Marshal([3]float64{p.X, p.Y, p.Z})
	}
	return json.Marshal([2]float64{p.X, p.Y})
}

type Stream struct {
	Key    StreamKey `json:"stream"`
	Points []Point   `json:"points"`
}

// TwoColumn reports whether every row of the stream is an (x, y) pair. Empty
// streams and streams mixing row widths are not two-column.
func (s Stream) TwoColumn() bool {
	if len(s.Points) == 0 {
		return false
	}
	for _, p := range s.Points {
		if p.HasZ {
			return false
		}
	}
	return true
}

// Streams keeps streams in the order their headers first appeared.
type Streams []Stream

func (ss Streams) Get(key StreamKey) (Stream, bool) {
	for _, s := range ss {
		if s.Key == key {
			return s, true
		}
	}
	return Stream{}, false
}

// NonEmpty drops streams whose header was not followed by any row.
func (ss Streams) NonEmpty() Streams {
	out := make(Streams, 0, len(ss))
	for _, s := range ss {
		if len(s.Points) > 0 {
			out = append(out, s)
		}
	}
	return out
}
