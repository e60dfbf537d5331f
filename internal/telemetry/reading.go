package telemetry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rileyhilliard/powerdash/internal/errors"
)

// Reading is one decoded telemetry message: voltage, current and power for
// each of the three phases.
type Reading struct {
	V1 float64 `json:"v1"`
	V2 float64 `json:"v2"`
	V3 float64 `json:"v3"`
	C1 float64 `json:"c1"`
	C2 float64 `json:"c2"`
	C3 float64 `json:"c3"`
	P1 float64 `json:"p1"`
	P2 float64 `json:"p2"`
	P3 float64 `json:"p3"`
}

// TotalPower is the sum of the three phase powers.
func (r Reading) TotalPower() float64 {
	return r.P1 + r.P2 + r.P3
}

// TotalCurrent is the sum of the three phase currents.
func (r Reading) TotalCurrent() float64 {
	return r.C1 + r.C2 + r.C3
}

// AverageVoltage is the mean of the three phase voltages.
func (r Reading) AverageVoltage() float64 {
	return (r.V1 + r.V2 + r.V3) / 3
}

// Voltages returns the phase voltages in order.
func (r Reading) Voltages() [3]float64 {
	return [3]float64{r.V1, r.V2, r.V3}
}

// Currents returns the phase currents in order.
func (r Reading) Currents() [3]float64 {
	return [3]float64{r.C1, r.C2, r.C3}
}

// Powers returns the phase powers in order.
func (r Reading) Powers() [3]float64 {
	return [3]float64{r.P1, r.P2, r.P3}
}

// wireReading uses pointers so absent keys can be told apart from zeros.
type wireReading struct {
	V1 *float64 `json:"v1"`
	V2 *float64 `json:"v2"`
	V3 *float64 `json:"v3"`
	C1 *float64 `json:"c1"`
	C2 *float64 `json:"c2"`
	C3 *float64 `json:"c3"`
	P1 *float64 `json:"p1"`
	P2 *float64 `json:"p2"`
	P3 *float64 `json:"p3"`
}

// Decode parses a telemetry message. All nine keys must be present and
// numeric; anything else is rejected with an ErrTelemetry error.
func Decode(data []byte) (Reading, error) {
	var w wireReading
	if err := json.Unmarshal(data, &w); err != nil {
		return Reading{}, errors.WrapWithCode(err, errors.ErrTelemetry,
			"Couldn't decode telemetry message",
			"Messages must be JSON objects with numeric v1..v3, c1..c3 and p1..p3")
	}

	fields := []struct {
		key string
		val *float64
	}{
		{"v1", w.V1}, {"v2", w.V2}, {"v3", w.V3},
		{"c1", w.C1}, {"c2", w.C2}, {"c3", w.C3},
		{"p1", w.P1}, {"p2", w.P2}, {"p3", w.P3},
	}
	var missing []string
	for _, f := range fields {
		if f.val == nil {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return Reading{}, errors.New(errors.ErrTelemetry,
			fmt.Sprintf("Telemetry message is missing %s", strings.Join(missing, ", ")),
			"Check the publisher sends every phase value")
	}

	return Reading{
		V1: *w.V1, V2: *w.V2, V3: *w.V3,
		C1: *w.C1, C2: *w.C2, C3: *w.C3,
		P1: *w.P1, P2: *w.P2, P3: *w.P3,
	}, nil
}

// Encode marshals a reading to the wire format. Used by the simulator and tests.
func Encode(r Reading) ([]byte, error) {
	return json.Marshal(r)
}
