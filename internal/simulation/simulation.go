// Package simulation produces placeholder telemetry for the dashboard.
//
// None of these figures are measured or computed from real data. They exist
// so the live map, maintenance forecast and driver leaderboard have something
// to render until real feeds are connected.
package simulation

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// Generator produces mock views over loaded records.
type Generator interface {
	LiveBuses(buses []models.Bus) []LiveBus
	MaintenanceForecast(buses []models.Bus) []MaintenanceForecast
	DriverSummaries(drivers []models.Driver) []DriverSummary
}

// Position is a latitude/longitude pair.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LiveBus is a simulated real-time reading for one bus.
type LiveBus struct {
	BusID      string   `json:"bus_id"`
	Number     string   `json:"number"`
	Route      string   `json:"route"`
	Passengers int      `json:"passengers"`
	Capacity   int      `json:"capacity"`
	SpeedKmh   int      `json:"speed_kmh"`
	FuelLevel  int      `json:"fuel_level"`
	Load       string   `json:"load"`
	Status     string   `json:"status"`
	NextStop   string   `json:"next_stop"`
	ETAMinutes int      `json:"eta_minutes"`
	DelayMin   int      `json:"delay_minutes"`
	Position   Position `json:"position"`
	Mileage    int      `json:"mileage_km"`
}

// MaintenanceForecast is a simulated service outlook for one bus.
type MaintenanceForecast struct {
	BusID       string `json:"bus_id"`
	Label       string `json:"label"`
	NextService string `json:"next_service"`
	Mileage     int    `json:"mileage_km"`
	Condition   string `json:"condition"`
	Priority    string `json:"priority"`
}

// DriverSummary is a simulated performance snapshot for one active driver.
type DriverSummary struct {
	DriverID       string  `json:"driver_id"`
	Name           string  `json:"name"`
	Rating         float64 `json:"rating"`
	Trips          int     `json:"trips"`
	OnTimePercent  int     `json:"on_time_percentage"`
	FuelEfficiency float64 `json:"fuel_efficiency_kmpl"`
	Incidents      int     `json:"incidents"`
}

// Origin is the centre the simulated positions are scattered around.
var Origin = Position{Lat: 40.7128, Lng: -74.006}

// Random draws every figure from a seeded source. It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewRandom returns a generator seeded with seed, or with the clock when
// seed is 0.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed)), now: time.Now}
}

func (g *Random) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.rng.Intn(n)
}

// LiveBuses simulates a reading for every bus.
func (g *Random) LiveBuses(buses []models.Bus) []LiveBus {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]LiveBus, 0, len(buses))
	for _, b := range buses {
		lb := LiveBus{
			BusID:      b.ID.Hex(),
			Number:     b.BusNumber,
			Route:      b.RouteNumber,
			Capacity:   b.Capacity,
			Passengers: g.intn(int(float64(b.Capacity)*0.8)) + 5,
			SpeedKmh:   g.intn(30) + 25,
			FuelLevel:  g.intn(40) + 60,
			Load:       "low",
			NextStop:   b.CurrentLocation,
			ETAMinutes: g.intn(10) + 2,
			DelayMin:   g.intn(10) - 2,
			Mileage:    g.intn(50000) + 20000,
			Position: Position{
				Lat: Origin.Lat + (g.rng.Float64()-0.5)*0.1,
				Lng: Origin.Lng + (g.rng.Float64()-0.5)*0.1,
			},
		}
		switch b.Status {
		case models.BusActive:
			lb.Status = "On Time"
			if g.rng.Float64() > 0.5 {
				lb.Load = "medium"
			}
		case models.BusMaintenance:
			lb.Status = "Maintenance"
			lb.Passengers, lb.SpeedKmh = 0, 0
		default:
			lb.Status = "Inactive"
			lb.Passengers, lb.SpeedKmh = 0, 0
		}
		out = append(out, lb)
	}
	return out
}

// MaintenanceForecast simulates mileage for every bus and grades it.
func (g *Random) MaintenanceForecast(buses []models.Bus) []MaintenanceForecast {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.now()
	out := make([]MaintenanceForecast, 0, len(buses))
	for _, b := range buses {
		mileage := g.intn(50000) + 30000
		daysSinceService := g.intn(90)
		condition, priority := Grade(mileage)

		label := b.RouteNumber
		if label == "" {
			label = fmt.Sprintf("BUS-%s", b.ID.Hex()[:3])
		}
		out = append(out, MaintenanceForecast{
			BusID:       b.ID.Hex(),
			Label:       label,
			NextService: today.AddDate(0, 0, 90-daysSinceService).Format("2006-01-02"),
			Mileage:     mileage,
			Condition:   condition,
			Priority:    priority,
		})
	}
	return out
}

// Grade maps a mileage reading to a condition and a service priority.
func Grade(mileage int) (condition, priority string) {
	switch {
	case mileage > 60000:
		return "Needs Attention", "High"
	case mileage > 50000:
		return "Fair", "Medium"
	default:
		return "Excellent", "Low"
	}
}

// DriverSummaries simulates a snapshot for every active driver.
func (g *Random) DriverSummaries(drivers []models.Driver) []DriverSummary {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := []DriverSummary{}
	for _, d := range drivers {
		if d.Status != models.DriverActive {
			continue
		}
		incidents := 0
		if g.rng.Float64() > 0.8 {
			incidents = g.intn(3)
		}
		out = append(out, DriverSummary{
			DriverID:       d.ID.Hex(),
			Name:           d.FullName,
			Trips:          g.intn(100) + 100,
			OnTimePercent:  g.intn(20) + 80,
			FuelEfficiency: round1(g.rng.Float64()*2 + 7),
			Incidents:      incidents,
			Rating:         round1(4.5 + g.rng.Float64()*0.5),
		})
	}
	return out
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

var _ Generator = (*Random)(nil)
