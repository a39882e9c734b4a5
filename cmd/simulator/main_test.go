package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory stand-in for the bus endpoints.
type fakeAPI struct {
	mu     sync.Mutex
	buses  []Bus
	forms  map[string]BusForm
	tokens []string
	fail   bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{forms: map[string]BusForm{}}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/buses", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.tokens = append(f.tokens, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"items": f.buses})
	})
	mux.HandleFunc("POST /api/buses", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "Insufficient permissions"})
			return
		}
		var form BusForm
		json.NewDecoder(r.Body).Decode(&form)
		id := fmt.Sprintf("id-%d", len(f.buses)+1)
		bus := Bus{ID: id, RouteNumber: form.RouteNumber, BusNumber: form.BusNumber, CurrentLocation: form.CurrentLocation}
		f.buses = append(f.buses, bus)
		f.forms[id] = form
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"item": bus})
	})
	mux.HandleFunc("GET /api/buses/{id}/form", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		form, ok := f.forms[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(form)
	})
	mux.HandleFunc("PUT /api/buses/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var form BusForm
		json.NewDecoder(r.Body).Decode(&form)
		f.forms[r.PathValue("id")] = form
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	return mux
}

func TestNextBusForm(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	form := nextBusForm(nil, rng)
	assert.Equal(t, "Ocean Breeze", form.BusNumber)
	assert.Equal(t, "R01", form.RouteNumber)
	assert.Equal(t, "50", form.Capacity)
	assert.Equal(t, "active", form.Status)
	assert.True(t, strings.HasPrefix(form.CurrentLocation, "Stop "))

	form = nextBusForm([]Bus{{BusNumber: "Ocean Breeze"}, {BusNumber: "City Star"}}, rng)
	assert.Equal(t, "Mountain View", form.BusNumber)
	assert.Equal(t, "R03", form.RouteNumber)
}

func TestNextBusForm_AllNamesUsed(t *testing.T) {
	existing := make([]Bus, len(busNames))
	for i, n := range busNames {
		existing[i] = Bus{BusNumber: n}
	}
	form := nextBusForm(existing, rand.New(rand.NewSource(1)))
	assert.True(t, strings.HasPrefix(form.BusNumber, "Bus "))
	assert.Equal(t, fmt.Sprintf("R%02d", len(busNames)+1), form.RouteNumber)
}

func TestRandomStop(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		var n int
		_, err := fmt.Sscanf(randomStop(rng), "Stop %d", &n)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, stopCount)
	}
}

func TestSeedAndDrift(t *testing.T) {
	api := newFakeAPI()
	api.buses = []Bus{{ID: "existing", BusNumber: "Ocean Breeze"}}
	api.forms["existing"] = BusForm{BusNumber: "Ocean Breeze", Capacity: "40", Status: "active"}

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	client := NewClient(srv.URL+"/api", "sim-token")
	rng := rand.New(rand.NewSource(5))

	buses, err := seed(context.Background(), client, 3, rng)
	require.NoError(t, err)
	require.Len(t, buses, 3)
	assert.Equal(t, "Mountain View", buses[1].BusNumber)
	assert.Equal(t, "City Star", buses[2].BusNumber)
	assert.Equal(t, "Bearer sim-token", api.tokens[0])

	moved := drift(context.Background(), client, buses, rng)
	assert.Equal(t, 3, moved)

	api.mu.Lock()
	defer api.mu.Unlock()
	existing := api.forms["existing"]
	assert.Equal(t, "40", existing.Capacity)
	assert.True(t, strings.HasPrefix(existing.CurrentLocation, "Stop "))
}

func TestSeed_APIRejects(t *testing.T) {
	api := newFakeAPI()
	api.fail = true
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	buses, err := seed(context.Background(), NewClient(srv.URL+"/api", ""), 2, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Insufficient permissions")
	assert.Empty(t, buses)
}

func TestDrift_SkipsFailures(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	moved := drift(context.Background(), NewClient(srv.URL+"/api", ""), []Bus{{ID: "missing"}}, rand.New(rand.NewSource(1)))
	assert.Zero(t, moved)
}

func TestEnvInt(t *testing.T) {
	cases := []struct {
		value string
		want  int
	}{
		{"", 5},
		{"8", 8},
		{"invalid", 5},
		{"0", 0},
	}
	for _, tc := range cases {
		t.Run("value_"+tc.value, func(t *testing.T) {
			t.Setenv("FLEET_SIZE", tc.value)
			assert.Equal(t, tc.want, envInt("FLEET_SIZE", 5))
		})
	}
}
