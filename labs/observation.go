/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import "github.com/elliotchance/orderedmap/v3"

// RefSource records where an observation's reference bounds came from.
type RefSource string

// RefSource values.
const (
	RefSourceNone       RefSource = ""
	RefSourceReport     RefSource = "report"
	RefSourceDictionary RefSource = "dictionary"
	RefSourceCatalog    RefSource = "catalog"
)

// Observation is one measured lab value. Optional numbers are nil when absent.
type Observation struct {
	Key       string    `json:"key"`
	Value     *float64  `json:"value"`
	Unit      string    `json:"unit"`
	RefText   string    `json:"ref_text"`
	RefLow    *float64  `json:"ref_low"`
	RefHigh   *float64  `json:"ref_high"`
	RefSource RefSource `json:"ref_source,omitempty"`
}

// HasRange reports whether at least one reference bound is present.
func (o Observation) HasRange() bool {
	return o.RefLow != nil || o.RefHigh != nil
}

// Copy returns o with its optional numbers copied, so the result shares no
// memory with o.
func (o Observation) Copy() Observation {
	o.Value = copyFloat(o.Value)
	o.RefLow = copyFloat(o.RefLow)
	o.RefHigh = copyFloat(o.RefHigh)

	return o
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}

	v := *f

	return &v
}

// Observations is an ordered collection of observations keyed by analyte
// name. Iteration follows first-insertion order. Putting a key that already
// exists replaces the stored observation (last write wins) but keeps the
// key's original position: reports that repeat a table header or a result
// are expected to be superseded by the later occurrence.
type Observations struct {
	m *orderedmap.OrderedMap[string, Observation]
}

// NewObservations returns an empty collection.
func NewObservations() *Observations {
	return &Observations{m: orderedmap.NewOrderedMap[string, Observation]()}
}

// Put stores o under o.Key, replacing any earlier observation with the same
// key. It reports whether the key was new.
func (s *Observations) Put(o Observation) bool {
	return s.m.Set(o.Key, o)
}

// Get returns the observation stored under key.
func (s *Observations) Get(key string) (Observation, bool) {
	return s.m.Get(key)
}

// Len returns the number of distinct keys.
func (s *Observations) Len() int {
	return s.m.Len()
}

// All returns the observations in order. The slice is a copy.
func (s *Observations) All() []Observation {
	out := make([]Observation, 0, s.m.Len())
	for el := s.m.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.Copy())
	}

	return out
}

// Keys returns the analyte names in order.
func (s *Observations) Keys() []string {
	out := make([]string, 0, s.m.Len())
	for el := s.m.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}

	return out
}

// Find returns the first observation whose key matches the include fragments
// and none of the exclude fragments, compared case- and accent-insensitively.
func (s *Observations) Find(include, exclude []string) (Observation, bool) {
	for el := s.m.Front(); el != nil; el = el.Next() {
		if ContainsAny(el.Key, include, exclude) {
			return el.Value, true
		}
	}

	return Observation{}, false
}

// Clone returns an independent copy of the collection.
func (s *Observations) Clone() *Observations {
	out := NewObservations()
	for el := s.m.Front(); el != nil; el = el.Next() {
		out.Put(el.Value.Copy())
	}

	return out
}
