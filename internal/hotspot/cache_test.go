package hotspot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hotspot-cli/internal/model"
)

func TestFingerprint(t *testing.T) {
	incidents := twoHotspotIncidents()
	params := model.Params{Eps: 0.02, MinPts: 500, SampleSize: 50000, Seed: 42}

	t.Run("stable for identical input", func(t *testing.T) {
		assert.Equal(t, Fingerprint(incidents, params), Fingerprint(incidents, params))
	})

	t.Run("sensitive to point order", func(t *testing.T) {
		reversed := make([]model.Incident, len(incidents))
		for i, inc := range incidents {
			reversed[len(incidents)-1-i] = inc
		}
		assert.NotEqual(t, Fingerprint(incidents, params), Fingerprint(reversed, params))
	})

	t.Run("sensitive to each parameter", func(t *testing.T) {
		base := Fingerprint(incidents, params)

		variants := map[string]model.Params{
			"eps":         {Eps: 0.021, MinPts: 500, SampleSize: 50000, Seed: 42},
			"min pts":     {Eps: 0.02, MinPts: 501, SampleSize: 50000, Seed: 42},
			"sample size": {Eps: 0.02, MinPts: 500, SampleSize: 49999, Seed: 42},
			"seed":        {Eps: 0.02, MinPts: 500, SampleSize: 50000, Seed: 43},
			"district":    {Eps: 0.02, MinPts: 500, SampleSize: 50000, Seed: 42, District: "MISSION"},
			"category":    {Eps: 0.02, MinPts: 500, SampleSize: 50000, Seed: 42, Category: "ASSAULT"},
		}
		for name, p := range variants {
			t.Run(name, func(t *testing.T) {
				assert.NotEqual(t, base, Fingerprint(incidents, p))
			})
		}
	})

	t.Run("district and category do not collide", func(t *testing.T) {
		a := model.Params{Eps: 0.02, MinPts: 500, District: "AB"}
		b := model.Params{Eps: 0.02, MinPts: 500, Category: "AB"}
		assert.NotEqual(t, Fingerprint(incidents, a), Fingerprint(incidents, b))
	})
}

func TestCache(t *testing.T) {
	c := NewCache()
	out := &Outcome{Result: model.RunResult{TotalPoints: 21}}

	assert.Nil(t, c.Get("missing"))
	assert.Zero(t, c.Len())

	c.Set("a", out)
	require.NotNil(t, c.Get("a"))
	assert.Equal(t, 21, c.Get("a").Result.TotalPoints)
	assert.Equal(t, 1, c.Len())

	c.Set("b", out)
	assert.Equal(t, 2, c.Len())

	c.Delete("a")
	assert.Nil(t, c.Get("a"))
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Get("b"))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache()
	out := &Outcome{}

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				c.Set("shared", out)
				c.Get("shared")
				c.Len()
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 1, c.Len())
}
