// Package compare implements the two-slot vehicle comparison.
package compare

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"autoreview/app/models"
	"autoreview/app/search"
)

var (
	ErrUnknownSlot = errors.New("unknown comparison slot")
	ErrUnknownCar  = errors.New("car not in the collection")
)

// Slot is one of the two selection positions.
type Slot int

const (
	First Slot = iota
	Second
)

// Slots lists both positions in display order.
var Slots = []Slot{First, Second}

func (s Slot) Title() string {
	switch s {
	case First:
		return "First Vehicle"
	case Second:
		return "Second Vehicle"
	}
	return fmt.Sprintf("Slot %d", int(s))
}

func (s Slot) valid() bool {
	return s == First || s == Second
}

// Attribute is one labelled value of a car.
type Attribute struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Attributes lists every displayed attribute of car, in display order.
func Attributes(car *models.CarSpec) []Attribute {
	return []Attribute{
		{"Engine Type", car.Engine.Type},
		{"Engine Displacement", formatNumber(car.Engine.Displacement) + "L"},
		{"Horsepower", formatNumber(car.Engine.Horsepower) + " HP"},
		{"Torque", formatNumber(car.Engine.Torque) + " Nm"},
		{"Fuel Type", car.Engine.FuelType},
		{"Transmission", car.Transmission},
		{"Drivetrain", car.Drivetrain},
		{"Length", formatNumber(car.Dimensions.Length) + "m"},
		{"Width", formatNumber(car.Dimensions.Width) + "m"},
		{"Height", formatNumber(car.Dimensions.Height) + "m"},
		{"Wheelbase", formatNumber(car.Dimensions.Wheelbase) + "m"},
		{"0-60 mph", formatNumber(car.Performance.ZeroToSixty) + "s"},
		{"Top Speed", formatNumber(car.Performance.TopSpeed) + " mph"},
		{"Weight", formatNumber(car.Performance.Weight) + " kg"},
		{"Price", FormatPrice(car.Price)},
	}
}

// Row pairs the values of one attribute for both cars.
type Row struct {
	Label  string `json:"label"`
	First  string `json:"first"`
	Second string `json:"second"`
}

// Comparison is the side-by-side view of two cars.
type Comparison struct {
	First  *models.CarSpec `json:"first"`
	Second *models.CarSpec `json:"second"`
	Rows   []Row           `json:"rows"`
}

// Compare lays out two cars side by side. It computes no winner.
func Compare(first, second *models.CarSpec) Comparison {
	a, b := Attributes(first), Attributes(second)
	rows := make([]Row, len(a))
	for i := range a {
		rows[i] = Row{Label: a[i].Label, First: a[i].Value, Second: b[i].Value}
	}
	return Comparison{First: first, Second: second, Rows: rows}
}

type slotState struct {
	session  *search.Session[*models.CarSpec]
	selected *models.CarSpec
}

// Selector holds two independent slots over one car collection. The same
// car may be selected into both slots.
type Selector struct {
	mu    sync.RWMutex
	cars  []*models.CarSpec
	slots [2]slotState
}

// NewSelector builds both slots over cars. onChange, if set, observes every
// dropdown change of either slot.
func NewSelector(cars []*models.CarSpec, opts search.Options, onChange func(Slot, search.Snapshot[*models.CarSpec])) *Selector {
	sel := &Selector{cars: cars}
	for _, slot := range Slots {
		slot := slot
		var observe func(search.Snapshot[*models.CarSpec])
		if onChange != nil {
			observe = func(snap search.Snapshot[*models.CarSpec]) { onChange(slot, snap) }
		}
		session := search.NewSession[*models.CarSpec](opts, observe)
		// The collection is already in memory; loading cannot fail.
		_ = session.Load(context.Background(), func(context.Context) ([]*models.CarSpec, error) {
			return cars, nil
		})
		sel.slots[slot].session = session
	}
	return sel
}

// Session returns the search box of slot.
func (s *Selector) Session(slot Slot) (*search.Session[*models.CarSpec], error) {
	if !slot.valid() {
		return nil, ErrUnknownSlot
	}
	return s.slots[slot].session, nil
}

// Select puts the car with id into slot, replacing any earlier choice, and
// closes the slot's dropdown.
func (s *Selector) Select(slot Slot, id string) (*models.CarSpec, error) {
	if !slot.valid() {
		return nil, ErrUnknownSlot
	}
	car, ok := s.slots[slot].session.Select(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownCar)
	}

	s.mu.Lock()
	s.slots[slot].selected = car
	s.mu.Unlock()
	return car, nil
}

// Clear empties slot and resets its search box.
func (s *Selector) Clear(slot Slot) error {
	if !slot.valid() {
		return ErrUnknownSlot
	}
	s.mu.Lock()
	s.slots[slot].selected = nil
	s.mu.Unlock()

	s.slots[slot].session.Clear()
	return nil
}

// Selected returns the car in slot, or nil.
func (s *Selector) Selected(slot Slot) *models.CarSpec {
	if !slot.valid() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[slot].selected
}

// Comparison returns the side-by-side view once both slots are filled.
func (s *Selector) Comparison() (Comparison, bool) {
	s.mu.RLock()
	first, second := s.slots[First].selected, s.slots[Second].selected
	s.mu.RUnlock()

	if first == nil || second == nil {
		return Comparison{}, false
	}
	return Compare(first, second), true
}

// Cars returns the collection both slots choose from.
func (s *Selector) Cars() []*models.CarSpec {
	return s.cars
}

// Close stops both slot sessions.
func (s *Selector) Close() {
	for _, slot := range Slots {
		s.slots[slot].session.Close()
	}
}
