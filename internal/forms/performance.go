package forms

import (
	"time"

	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// PerformanceForm holds the inputs of the driver evaluation editor.
type PerformanceForm struct {
	DriverID              Text `json:"driver_id"`
	EvaluationDate        Text `json:"evaluation_date"`
	OverallRating         Text `json:"overall_rating"`
	SafetyRating          Text `json:"safety_rating"`
	PunctualityRating     Text `json:"punctuality_rating"`
	FuelEfficiencyRating  Text `json:"fuel_efficiency_rating"`
	CustomerServiceRating Text `json:"customer_service_rating"`
	TripsCompleted        Text `json:"trips_completed"`
	OnTimePercentage      Text `json:"on_time_percentage"`
	FuelEfficiencyKmpl    Text `json:"fuel_efficiency_kmpl"`
	IncidentsCount        Text `json:"incidents_count"`
	ComplaintsCount       Text `json:"complaints_count"`
	CommendationsCount    Text `json:"commendations_count"`
	EvaluatorName         Text `json:"evaluator_name"`
	Comments              Text `json:"comments"`
}

// NewPerformanceForm returns an evaluation form dated today with every
// rating at 4.0.
func NewPerformanceForm(today time.Time) PerformanceForm {
	return PerformanceForm{
		EvaluationDate:        dateText(today),
		OverallRating:         "4.0",
		SafetyRating:          "4.0",
		PunctualityRating:     "4.0",
		FuelEfficiencyRating:  "4.0",
		CustomerServiceRating: "4.0",
		TripsCompleted:        "0",
		IncidentsCount:        "0",
		ComplaintsCount:       "0",
		CommendationsCount:    "0",
	}
}

// PerformanceFormFrom pre-fills a form from an existing evaluation.
func PerformanceFormFrom(p models.DriverPerformanceRecord) PerformanceForm {
	return PerformanceForm{
		DriverID:              idText(p.DriverID),
		EvaluationDate:        dateText(p.EvaluationDate),
		OverallRating:         floatText(p.OverallRating),
		SafetyRating:          optFloatText(p.SafetyRating),
		PunctualityRating:     optFloatText(p.PunctualityRating),
		FuelEfficiencyRating:  optFloatText(p.FuelEfficiencyRating),
		CustomerServiceRating: optFloatText(p.CustomerServiceRating),
		TripsCompleted:        intText(p.TripsCompleted),
		OnTimePercentage:      optFloatText(p.OnTimePercentage),
		FuelEfficiencyKmpl:    optFloatText(p.FuelEfficiencyKmpl),
		IncidentsCount:        intText(p.IncidentsCount),
		ComplaintsCount:       intText(p.ComplaintsCount),
		CommendationsCount:    intText(p.CommendationsCount),
		EvaluatorName:         Text(p.EvaluatorName),
		Comments:              Text(p.Comments),
	}
}

// Record coerces the inputs into an evaluation.
func (f PerformanceForm) Record() models.DriverPerformanceRecord {
	return models.DriverPerformanceRecord{
		DriverID:              f.DriverID.ID(),
		EvaluationDate:        f.EvaluationDate.Date(),
		OverallRating:         f.OverallRating.Float(),
		SafetyRating:          f.SafetyRating.OptFloat(),
		PunctualityRating:     f.PunctualityRating.OptFloat(),
		FuelEfficiencyRating:  f.FuelEfficiencyRating.OptFloat(),
		CustomerServiceRating: f.CustomerServiceRating.OptFloat(),
		TripsCompleted:        f.TripsCompleted.Int(),
		OnTimePercentage:      f.OnTimePercentage.OptFloat(),
		FuelEfficiencyKmpl:    f.FuelEfficiencyKmpl.OptFloat(),
		IncidentsCount:        f.IncidentsCount.Int(),
		ComplaintsCount:       f.ComplaintsCount.Int(),
		CommendationsCount:    f.CommendationsCount.Int(),
		EvaluatorName:         f.EvaluatorName.String(),
		Comments:              f.Comments.String(),
	}
}

// Validate checks inputs that do not survive coercion. The overall rating
// must be present and numeric.
func (f PerformanceForm) Validate() error {
	if _, ok := f.OverallRating.number(); !ok {
		return apperr.Invalid("overall_rating", "is required")
	}
	return nil
}

// ValidatePerformance checks an evaluation before submission. Ratings are
// on a closed 0 to 5 scale.
func ValidatePerformance(p models.DriverPerformanceRecord) error {
	switch {
	case p.DriverID.IsZero():
		return apperr.Invalid("driver_id", "must reference a driver")
	case p.EvaluationDate.IsZero():
		return apperr.Invalid("evaluation_date", "is required")
	case !validRating(p.OverallRating):
		return apperr.Invalid("overall_rating", "must be between 0.0 and 5.0")
	}

	subRatings := []struct {
		field string
		value *float64
	}{
		{"safety_rating", p.SafetyRating},
		{"punctuality_rating", p.PunctualityRating},
		{"fuel_efficiency_rating", p.FuelEfficiencyRating},
		{"customer_service_rating", p.CustomerServiceRating},
	}
	for _, r := range subRatings {
		if r.value != nil && !validRating(*r.value) {
			return apperr.Invalid(r.field, "must be between 0.0 and 5.0")
		}
	}

	switch {
	case p.OnTimePercentage != nil && (*p.OnTimePercentage < 0 || *p.OnTimePercentage > 100):
		return apperr.Invalid("on_time_percentage", "must be between 0 and 100")
	case p.FuelEfficiencyKmpl != nil && *p.FuelEfficiencyKmpl < 0:
		return apperr.Invalid("fuel_efficiency_kmpl", "must not be negative")
	case p.TripsCompleted < 0:
		return apperr.Invalid("trips_completed", "must not be negative")
	case p.IncidentsCount < 0:
		return apperr.Invalid("incidents_count", "must not be negative")
	case p.ComplaintsCount < 0:
		return apperr.Invalid("complaints_count", "must not be negative")
	case p.CommendationsCount < 0:
		return apperr.Invalid("commendations_count", "must not be negative")
	}
	return nil
}

func validRating(r float64) bool {
	return r >= 0 && r <= models.MaxRating
}
