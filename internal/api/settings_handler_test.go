// internal/api/settings_handler_test.go
package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func validSettingsBody() map[string]interface{} {
	return map[string]interface{}{
		"teamComposition": []map[string]interface{}{
			{"role": "developer", "rate": 95, "share": 0.7},
			{"role": "architect", "rate": 150, "share": 0.3},
		},
		"infraCosts": map[string]interface{}{
			"rpa_license_annual":     12000,
			"virtual_machine_annual": 4000,
		},
		"baselines": map[string]interface{}{"low": 80, "medium": 200, "high": 400},
	}
}

func TestGetSettings_ServesCurrentRates(t *testing.T) {
	env := newTestEnv(t)

	ctx := env.do(t, "GET", "/api/settings", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	data := dataField(t, ctx)
	baselines := data["baselines"].(map[string]interface{})
	assert.Equal(t, 100.0, baselines["low"])
	assert.Equal(t, 240.0, baselines["medium"])
	assert.Equal(t, 480.0, baselines["high"])
}

func TestPutSettings_SavesAndInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)

	ctx := env.do(t, "PUT", "/api/settings", validSettingsBody())
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	require.NotNil(t, env.settings.saved)
	assert.Equal(t, 200.0, env.settings.saved.Baselines.Medium)
	assert.Len(t, env.settings.saved.TeamComposition, 2)

	assert.Equal(t, 1, env.rates.invalidated)
}

func TestPutSettings_RejectsZeroBaselines(t *testing.T) {
	env := newTestEnv(t)

	body := validSettingsBody()
	body["baselines"] = map[string]interface{}{"low": 0, "medium": 200, "high": 400}

	ctx := env.do(t, "PUT", "/api/settings", body)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Nil(t, env.settings.saved)
	assert.Equal(t, 0, env.rates.invalidated)
}

func TestPutSettings_RejectsOutOfRangeShare(t *testing.T) {
	env := newTestEnv(t)

	body := validSettingsBody()
	body["teamComposition"] = []map[string]interface{}{
		{"role": "developer", "rate": 95, "share": 1.5},
	}

	ctx := env.do(t, "PUT", "/api/settings", body)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Nil(t, env.settings.saved)
}

func TestPutSettings_RejectsNegativeInfraCost(t *testing.T) {
	env := newTestEnv(t)

	body := validSettingsBody()
	body["infraCosts"] = map[string]interface{}{"rpa_license_annual": -100}

	ctx := env.do(t, "PUT", "/api/settings", body)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}
