package forex

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// stubSource is a scriptable RateSource for tier-chain tests.
type stubSource struct {
	name  string
	rate  float64
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchRate(ctx context.Context, base, quote string) (*Rate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	now := time.Now().UTC()
	return &Rate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          s.rate,
		Date:          now.Truncate(24 * time.Hour),
		Source:        s.name,
		FetchedAt:     now,
	}, nil
}

func (s *stubSource) FetchHistoricalRates(ctx context.Context, base, quote string, start, end time.Time) ([]Rate, error) {
	return nil, errors.New("not supported")
}

func (s *stubSource) TestConnection(ctx context.Context) error { return s.err }

// memoryShared is an in-process stand-in for the Redis tier.
type memoryShared struct {
	rates map[string]*Rate
	gets  int
	sets  int
}

func newMemoryShared() *memoryShared {
	return &memoryShared{rates: make(map[string]*Rate)}
}

func (m *memoryShared) GetRate(ctx context.Context, base, quote string) (*Rate, bool) {
	m.gets++
	r, ok := m.rates[base+"/"+quote]
	return r, ok
}

func (m *memoryShared) SetRate(ctx context.Context, rate *Rate) {
	m.sets++
	m.rates[rate.BaseCurrency+"/"+rate.QuoteCurrency] = rate
}

func newTestService(primary, fallback RateSource, shared SharedRateCache) *Service {
	return NewService(primary, fallback, shared, ServiceConfig{CacheTTL: time.Minute}, zerolog.Nop())
}

func TestGetRateIdentity(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	rate, err := svc.GetRate(context.Background(), "USD", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.Rate != 1 || rate.Source != "identity" {
		t.Errorf("got %+v, want identity rate 1", rate)
	}
}

func TestGetRateTierChain(t *testing.T) {
	t.Run("primary wins when healthy", func(t *testing.T) {
		primary := &stubSource{name: "rbi", rate: 83.10}
		fallback := &stubSource{name: "exchangerate-host", rate: 83.20}
		svc := newTestService(primary, fallback, nil)

		rate, err := svc.GetRate(context.Background(), "USD", "INR")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rate.Source != "rbi" || rate.Rate != 83.10 {
			t.Errorf("got %+v, want primary quote", rate)
		}
		if fallback.calls != 0 {
			t.Error("fallback must not be called when primary succeeds")
		}
	})

	t.Run("fallback on primary failure", func(t *testing.T) {
		primary := &stubSource{name: "rbi", err: errors.New("timeout")}
		fallback := &stubSource{name: "exchangerate-host", rate: 83.20}
		svc := newTestService(primary, fallback, nil)

		rate, err := svc.GetRate(context.Background(), "USD", "INR")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rate.Source != "exchangerate-host" {
			t.Errorf("source = %q, want fallback", rate.Source)
		}
	})

	t.Run("static table terminates the chain", func(t *testing.T) {
		primary := &stubSource{name: "rbi", err: errors.New("down")}
		fallback := &stubSource{name: "exchangerate-host", err: errors.New("down")}
		svc := newTestService(primary, fallback, nil)

		rate, err := svc.GetRate(context.Background(), "USD", "INR")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rate.Source != "static" || rate.Rate != 83.25 {
			t.Errorf("got %+v, want static 83.25", rate)
		}
	})

	t.Run("unknown currency surfaces after all tiers", func(t *testing.T) {
		svc := newTestService(
			&stubSource{name: "rbi", err: errors.New("down")},
			&stubSource{name: "exchangerate-host", err: errors.New("down")},
			nil,
		)

		_, err := svc.GetRate(context.Background(), "XXX", "INR")
		if !errors.Is(err, ErrUnknownCurrency) {
			t.Errorf("got %v, want ErrUnknownCurrency", err)
		}
	})
}

func TestGetRateMemoizesInCache(t *testing.T) {
	primary := &stubSource{name: "rbi", rate: 83.10}
	svc := newTestService(primary, nil, nil)
	ctx := context.Background()

	if _, err := svc.GetRate(ctx, "USD", "INR"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetRate(ctx, "USD", "INR"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if primary.calls != 1 {
		t.Errorf("primary called %d times, want 1 (second hit served from cache)", primary.calls)
	}
	hits, _ := svc.CacheStats()
	if hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}
}

func TestSharedCacheTier(t *testing.T) {
	shared := newMemoryShared()
	primary := &stubSource{name: "rbi", rate: 83.10}
	ctx := context.Background()

	// First service populates the shared tier.
	svc1 := newTestService(primary, nil, shared)
	if _, err := svc1.GetRate(ctx, "USD", "INR"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shared.sets != 1 {
		t.Fatalf("shared sets = %d, want 1", shared.sets)
	}

	// Second service instance finds it there without touching the provider.
	svc2 := newTestService(primary, nil, shared)
	rate, err := svc2.GetRate(ctx, "USD", "INR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.Rate != 83.10 {
		t.Errorf("rate = %v, want shared-tier value", rate.Rate)
	}
	if primary.calls != 1 {
		t.Errorf("provider called %d times, want 1", primary.calls)
	}
}

func TestConvert(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	ctx := context.Background()

	result, err := svc.Convert(ctx, "USD", "INR", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ToAmount != 8325 {
		t.Errorf("ToAmount = %v, want 8325", result.ToAmount)
	}
	if result.Rate != 83.25 {
		t.Errorf("Rate = %v, want 83.25", result.Rate)
	}
	if math.Abs(result.InverseRate-0.012012) > 1e-6 {
		t.Errorf("InverseRate = %v, want ~0.012012", result.InverseRate)
	}
}

func TestCurrencyRoundTrip(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	ctx := context.Background()

	pairs := [][2]string{
		{"USD", "INR"}, {"EUR", "INR"}, {"INR", "JPY"},
		{"USD", "EUR"}, {"GBP", "JPY"}, {"AED", "SGD"},
	}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		t.Run(a+"/"+b, func(t *testing.T) {
			const amount = 1234.56

			there, err := svc.Convert(ctx, a, b, amount)
			if err != nil {
				t.Fatalf("convert %s->%s: %v", a, b, err)
			}
			back, err := svc.Convert(ctx, b, a, there.ToAmount)
			if err != nil {
				t.Fatalf("convert %s->%s: %v", b, a, err)
			}

			if math.Abs(back.ToAmount-amount) > 1e-9*amount {
				t.Errorf("round trip %s->%s->%s: %v, want ~%v", a, b, a, back.ToAmount, amount)
			}
		})
	}
}

func TestGetHistoricalRates(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	ctx := context.Background()

	// 2024-01-01 is a Monday; two full weeks give ten business days.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	rates, err := svc.GetHistoricalRates(ctx, "USD", "INR", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 10 {
		t.Fatalf("got %d rates, want 10 business days", len(rates))
	}

	for _, r := range rates {
		if !r.Synthetic {
			t.Errorf("%s: generated rate must carry the synthetic flag", r.Date.Format("2006-01-02"))
		}
		if wd := r.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("%s: weekend day in series", r.Date.Format("2006-01-02"))
		}
		if delta := math.Abs(r.Rate-83.25) / 83.25; delta > 0.02 {
			t.Errorf("%s: variance %v exceeds 2%%", r.Date.Format("2006-01-02"), delta)
		}
	}

	t.Run("deterministic", func(t *testing.T) {
		again, err := svc.GetHistoricalRates(ctx, "USD", "INR", start, end)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range rates {
			if rates[i].Rate != again[i].Rate {
				t.Errorf("day %d: %v != %v, series must be reproducible", i, rates[i].Rate, again[i].Rate)
			}
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, err := svc.GetHistoricalRates(ctx, "USD", "INR", end, start)
		if !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("got %v, want ErrInvalidDateRange", err)
		}
	})
}

func TestGetAverageRate(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	result, err := svc.GetAverageRate(context.Background(), AverageRateQuery{
		BaseCurrency:  "USD",
		QuoteCurrency: "INR",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.DataPoints == 0 {
		t.Fatal("no data points")
	}
	if !result.Synthetic {
		t.Error("average over generated rates must carry the synthetic flag")
	}
	if !(result.Min <= result.Average && result.Average <= result.Max) {
		t.Errorf("min %v <= avg %v <= max %v violated", result.Min, result.Average, result.Max)
	}
	if result.Volatility < 0 {
		t.Errorf("volatility = %v, must be non-negative", result.Volatility)
	}
}

func TestStaticRateTriangulation(t *testing.T) {
	cases := []struct {
		base, quote string
		want        float64
	}{
		{"USD", "INR", 83.25},
		{"INR", "USD", 1 / 83.25},
		{"USD", "EUR", 83.25 / 90.10},
		{"JPY", "GBP", 0.5560 / 105.45},
	}

	for _, tc := range cases {
		t.Run(tc.base+"/"+tc.quote, func(t *testing.T) {
			rate, err := StaticRate(tc.base, tc.quote)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rate.Rate != tc.want {
				t.Errorf("rate = %v, want %v", rate.Rate, tc.want)
			}
		})
	}

	t.Run("unknown codes", func(t *testing.T) {
		if _, err := StaticRate("USD", "XYZ"); !errors.Is(err, ErrUnknownCurrency) {
			t.Errorf("got %v, want ErrUnknownCurrency", err)
		}
		if _, err := StaticRate("XYZ", "USD"); !errors.Is(err, ErrUnknownCurrency) {
			t.Errorf("got %v, want ErrUnknownCurrency", err)
		}
	})
}

func TestRateCacheTTL(t *testing.T) {
	cache := newRateCache(10 * time.Millisecond)
	rate := &Rate{BaseCurrency: "USD", QuoteCurrency: "INR", Rate: 83.25}

	cache.set(rate)
	if got := cache.get("USD", "INR"); got == nil {
		t.Fatal("fresh entry must hit")
	}

	time.Sleep(20 * time.Millisecond)
	if got := cache.get("USD", "INR"); got != nil {
		t.Error("expired entry must miss")
	}

	hits, misses := cache.stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d, want 1/1", hits, misses)
	}
}
