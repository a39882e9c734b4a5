package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxRating is the top of the 0-5 rating scale.
const MaxRating = 5.0

// DriverPerformanceRecord is one evaluation of a driver.
type DriverPerformanceRecord struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DriverID              primitive.ObjectID `bson:"driver_id" json:"driver_id"`
	EvaluationDate        time.Time          `bson:"evaluation_date" json:"evaluation_date"`
	OverallRating         float64            `bson:"overall_rating" json:"overall_rating"`
	SafetyRating          *float64           `bson:"safety_rating" json:"safety_rating,omitempty"`
	PunctualityRating     *float64           `bson:"punctuality_rating" json:"punctuality_rating,omitempty"`
	FuelEfficiencyRating  *float64           `bson:"fuel_efficiency_rating" json:"fuel_efficiency_rating,omitempty"`
	CustomerServiceRating *float64           `bson:"customer_service_rating" json:"customer_service_rating,omitempty"`
	TripsCompleted        int                `bson:"trips_completed" json:"trips_completed"`
	OnTimePercentage      *float64           `bson:"on_time_percentage" json:"on_time_percentage,omitempty"`
	FuelEfficiencyKmpl    *float64           `bson:"fuel_efficiency_kmpl" json:"fuel_efficiency_kmpl,omitempty"`
	IncidentsCount        int                `bson:"incidents_count" json:"incidents_count"`
	ComplaintsCount       int                `bson:"complaints_count" json:"complaints_count"`
	CommendationsCount    int                `bson:"commendations_count" json:"commendations_count"`
	EvaluatorName         string             `bson:"evaluator_name" json:"evaluator_name,omitempty"`
	Comments              string             `bson:"comments" json:"comments,omitempty"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updated_at"`

	Driver *Driver `bson:"driver,omitempty" json:"driver,omitempty"`
}

func (p DriverPerformanceRecord) RecordID() primitive.ObjectID { return p.ID }
