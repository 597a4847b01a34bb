package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"autoreview/app/compare"
	"autoreview/app/models"
	"autoreview/app/services"

	"go.uber.org/zap"
)

const msgUnknownCar = "One of the selected cars is no longer available."

// CompareController handles the car list and the side-by-side comparison
type CompareController struct {
	*Base
	contentService *services.ContentService
	compareService *services.CompareService
}

// NewCompareController creates a new CompareController
func NewCompareController(base *Base, contentService *services.ContentService, compareService *services.CompareService) *CompareController {
	return &CompareController{Base: base, contentService: contentService, compareService: compareService}
}

type slotView struct {
	Title      string
	Param      string
	Selected   *models.CarSpec
	Attributes []compare.Attribute
	ClearURL   string
}

type comparePage struct {
	Cars       []*models.CarSpec
	Slots      []slotView
	Comparison *compare.Comparison
	Error      string
}

var slotParams = map[compare.Slot]string{compare.First: "first", compare.Second: "second"}

// Show handles GET /compare?first=&second=
func (cc *CompareController) Show(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view, err := cc.compareService.Compare(r.Context(), query.Get("first"), query.Get("second"))
	page := comparePage{}
	switch {
	case err == nil:
	case errors.Is(err, compare.ErrUnknownCar) && view != nil:
		page.Error = msgUnknownCar
	default:
		cc.logger().Error("failed to load cars", zap.Error(err))
		cc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
		return
	}

	page.Cars = view.Cars
	page.Comparison = view.Comparison
	selected := map[compare.Slot]*models.CarSpec{compare.First: view.First, compare.Second: view.Second}
	for _, slot := range compare.Slots {
		sv := slotView{Title: slot.Title(), Param: slotParams[slot], Selected: selected[slot]}
		if sv.Selected != nil {
			sv.Attributes = compare.Attributes(sv.Selected)
			sv.ClearURL = clearURL(query, slotParams[slot])
		}
		page.Slots = append(page.Slots, sv)
	}
	cc.render(w, r, http.StatusOK, "compare", "Compare Cars", page)
}

// Get handles GET /api/compare?first=&second=
func (cc *CompareController) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view, err := cc.compareService.Compare(r.Context(), query.Get("first"), query.Get("second"))
	switch {
	case err == nil:
		cc.sendJSON(w, http.StatusOK, view)
	case errors.Is(err, compare.ErrUnknownCar):
		cc.sendError(w, r, "Bad Request", err.Error(), http.StatusBadRequest)
	default:
		cc.logger().Error("failed to load cars", zap.Error(err))
		cc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
	}
}

// Cars handles GET /api/cars
func (cc *CompareController) Cars(w http.ResponseWriter, r *http.Request) {
	cars, err := cc.contentService.Cars(r.Context())
	if err != nil {
		cc.logger().Error("failed to list cars", zap.Error(err))
		cc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
		return
	}
	if cars == nil {
		cars = []*models.CarSpec{}
	}
	cc.sendJSON(w, http.StatusOK, cars)
}

func clearURL(query url.Values, param string) string {
	q := url.Values{}
	for k, v := range query {
		if k != param {
			q[k] = v
		}
	}
	if len(q) == 0 {
		return "/compare"
	}
	return "/compare?" + q.Encode()
}
