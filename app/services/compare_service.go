package services

import (
	"context"

	"autoreview/app/compare"
	"autoreview/app/models"
	"autoreview/app/search"
)

// CompareView is the state of the comparison page for one request.
type CompareView struct {
	Cars       []*models.CarSpec   `json:"cars"`
	First      *models.CarSpec     `json:"first"`
	Second     *models.CarSpec     `json:"second"`
	Comparison *compare.Comparison `json:"comparison"`
}

// CompareService resolves slot selections into a comparison
type CompareService struct {
	content *ContentService
}

// NewCompareService creates a new CompareService
func NewCompareService(content *ContentService) *CompareService {
	return &CompareService{content: content}
}

// Compare fills the slots with the cars named by firstID and secondID. An
// empty id leaves its slot empty; the comparison is set only when both are
// filled. An id outside the collection yields compare.ErrUnknownCar along
// with the view of the slots that did resolve.
func (s *CompareService) Compare(ctx context.Context, firstID, secondID string) (*CompareView, error) {
	cars, err := s.content.Cars(ctx)
	if err != nil {
		return nil, err
	}

	sel := compare.NewSelector(cars, search.Options{}, nil)
	defer sel.Close()

	var selectErr error
	for _, pick := range []struct {
		slot compare.Slot
		id   string
	}{{compare.First, firstID}, {compare.Second, secondID}} {
		if pick.id == "" {
			continue
		}
		if _, err := sel.Select(pick.slot, pick.id); err != nil && selectErr == nil {
			selectErr = err
		}
	}

	view := &CompareView{
		Cars:   cars,
		First:  sel.Selected(compare.First),
		Second: sel.Selected(compare.Second),
	}
	if cmp, ok := sel.Comparison(); ok {
		view.Comparison = &cmp
	}
	return view, selectErr
}
