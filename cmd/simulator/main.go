package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// busNames are handed out in order to seeded buses, skipping names in use.
var busNames = []string{
	"Ocean Breeze", "Mountain View", "City Star", "Golden Arrow", "Silver Line",
	"Blue Wave", "Green Valley", "Red Phoenix", "Purple Rain", "Orange Sunset",
	"Thunder Bolt", "Lightning Fast", "Wind Runner", "Storm Chaser", "Sky Rider",
	"River Flow", "Forest Trail", "Desert Wind", "Arctic Express", "Tropical Cruise",
}

// stopCount is the number of named stops a bus drifts between.
const stopCount = 20

// Bus is the part of a bus record the simulator reads.
type Bus struct {
	ID              string `json:"id"`
	RouteNumber     string `json:"route_number"`
	BusNumber       string `json:"bus_number"`
	CurrentLocation string `json:"current_location"`
}

// BusForm is what the API accepts when creating or editing a bus.
type BusForm struct {
	RouteNumber     string `json:"route_number"`
	BusNumber       string `json:"bus_number"`
	Capacity        string `json:"capacity"`
	Status          string `json:"status"`
	CurrentLocation string `json:"current_location"`
}

// Client talks to the dashboard API with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates an API client rooted at baseURL, e.g. http://host/api.
func NewClient(baseURL, token string) *Client {
	return &Client{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListBuses returns the buses the dashboard currently holds.
func (c *Client) ListBuses(ctx context.Context) ([]Bus, error) {
	var view struct {
		Items []Bus `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/buses", nil, &view); err != nil {
		return nil, err
	}
	return view.Items, nil
}

// CreateBus submits form and returns the stored bus.
func (c *Client) CreateBus(ctx context.Context, form BusForm) (Bus, error) {
	var resp struct {
		Item Bus `json:"item"`
	}
	if err := c.do(ctx, http.MethodPost, "/buses", form, &resp); err != nil {
		return Bus{}, err
	}
	if resp.Item.ID == "" {
		return Bus{}, errors.New("no bus returned from the API")
	}
	return resp.Item, nil
}

// MoveBus sets the current location of a bus, keeping its other fields.
func (c *Client) MoveBus(ctx context.Context, id, location string) error {
	var form BusForm
	if err := c.do(ctx, http.MethodGet, "/buses/"+id+"/form", nil, &form); err != nil {
		return err
	}
	form.CurrentLocation = location
	return c.do(ctx, http.MethodPut, "/buses/"+id, form, nil)
}

// nextBusForm builds the form of the next demo bus given the buses in use.
func nextBusForm(existing []Bus, rng *rand.Rand) BusForm {
	used := make(map[string]bool, len(existing))
	for _, b := range existing {
		used[b.BusNumber] = true
	}
	name := fmt.Sprintf("Bus %d", time.Now().UnixNano())
	for _, n := range busNames {
		if !used[n] {
			name = n
			break
		}
	}
	return BusForm{
		RouteNumber:     fmt.Sprintf("R%02d", len(existing)+1),
		BusNumber:       name,
		Capacity:        "50",
		Status:          "active",
		CurrentLocation: randomStop(rng),
	}
}

func randomStop(rng *rand.Rand) string {
	return fmt.Sprintf("Stop %d", rng.Intn(stopCount)+1)
}

// seed creates buses until fleetSize exist and returns the fleet.
func seed(ctx context.Context, c *Client, fleetSize int, rng *rand.Rand) ([]Bus, error) {
	buses, err := c.ListBuses(ctx)
	if err != nil {
		return nil, err
	}
	for len(buses) < fleetSize {
		form := nextBusForm(buses, rng)
		bus, err := c.CreateBus(ctx, form)
		if err != nil {
			return buses, err
		}
		log.WithFields(log.Fields{
			"bus_id":       bus.ID,
			"bus_number":   bus.BusNumber,
			"route_number": bus.RouteNumber,
		}).Info("Created bus")
		buses = append(buses, bus)
	}
	return buses, nil
}

// drift moves every bus to a random stop once.
func drift(ctx context.Context, c *Client, buses []Bus, rng *rand.Rand) int {
	moved := 0
	for _, b := range buses {
		stop := randomStop(rng)
		if err := c.MoveBus(ctx, b.ID, stop); err != nil {
			log.WithError(err).WithField("bus_id", b.ID).Warn("Failed to move bus")
			continue
		}
		moved++
		log.WithFields(log.Fields{"bus_id": b.ID, "stop": stop}).Debug("Moved bus")
	}
	return moved
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	token := os.Getenv("SIM_AUTH_TOKEN")
	fleetSize := envInt("FLEET_SIZE", 5)

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 10 * time.Second
	if n := envInt("SIM_TICK_SECONDS", 0); n >= 1 {
		interval = time.Duration(n) * time.Second
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting fleet simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	client := NewClient(apiURL, token)

	buses, err := seed(ctx, client, fleetSize, rng)
	if err != nil {
		log.WithError(err).Error("Seeding stopped early")
	}
	if len(buses) == 0 {
		log.Error("No buses available. Ensure SIM_AUTH_TOKEN belongs to an admin and the API is reachable.")
		return
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Simulation stopped")
			return
		case <-tick.C:
			moved := drift(ctx, client, buses, rng)
			log.WithField("moved", moved).Info("Fleet positions updated")
		}
	}
}
