package forecast

import (
	"context"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/bethellan/MaranuiCam/internal/observability"
)

// maxOverlayEvents caps the authoritative tide-event overlay per day.
const maxOverlayEvents = 4

// ProviderSet bundles the adapters an assembly fans out to. Only the
// two primaries are expected; any nil entry is simply skipped.
type ProviderSet struct {
	Atmospheric AtmosphericProvider
	Marine      MarineProvider
	TideHeights TideHeightProvider
	TideEvents  TideEventProvider
	Sun         SunProvider
}

// Options configure the assembly service.
type Options struct {
	Latitude  float64
	Longitude float64
	Location  *time.Location

	// ProviderTimeout bounds every individual adapter call so one
	// unresponsive provider cannot stall the fan-in barrier.
	ProviderTimeout time.Duration

	// SyntheticSeed varies the synthetic estimator's jitter.
	SyntheticSeed int64

	Metrics *observability.Metrics
	Clock   clockwork.Clock
}

// Service reconciles provider data into one Dataset per requested day.
// It fans out to all configured adapters concurrently, merges their
// partial results under a precedence policy, fills gaps synthetically,
// and normalizes every series, so assembly always yields a complete,
// in-range dataset regardless of provider health.
type Service struct {
	providers ProviderSet
	opts      Options
	synth     *SyntheticEstimator
	clock     clockwork.Clock
	metrics   *observability.Metrics

	// gen orders assemblies so a superseded in-flight result can be
	// recognized and discarded by the store.
	gen atomic.Uint64
}

// NewService creates an assembly service.
func NewService(providers ProviderSet, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 30 * time.Second
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Service{
		providers: providers,
		opts:      opts,
		synth:     NewSyntheticEstimator(opts.SyntheticSeed),
		clock:     clock,
		metrics:   metrics,
	}
}

// RequestFor builds the day window for a signed offset from today in
// the service's timezone.
func (s *Service) RequestFor(dayOffset int) Request {
	now := s.clock.Now().In(s.opts.Location)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.opts.Location)
	day = day.AddDate(0, 0, dayOffset)

	req := Request{
		Day:       day,
		Latitude:  s.opts.Latitude,
		Longitude: s.opts.Longitude,
	}
	for i := range req.Hours {
		req.Hours[i] = day.Add(time.Duration(i) * time.Hour)
	}
	return req
}

// Assemble produces the reconciled dataset for a signed day offset.
// Provider failures degrade to synthetic substitution and are never
// surfaced as errors; the only error path is context cancellation of
// a superseded request.
func (s *Service) Assemble(ctx context.Context, dayOffset int) (*Dataset, error) {
	gen := s.gen.Add(1)
	s.metrics.Assemblies.Inc()
	started := s.clock.Now()

	req := s.RequestFor(dayOffset)

	var (
		wg sync.WaitGroup

		atmos    AtmosphericReport
		atmosErr error
		marine   MarineReport
		marErr   error
		tide     HourlySeries
		tideErr  error
		sun      SunTimes
		sunErr   error
	)

	fetch := func(name string, do func(ctx context.Context) error, errOut *error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
			defer cancel()

			if err := do(fctx); err != nil {
				*errOut = err
				s.metrics.ProviderFailures.WithLabelValues(name).Inc()
				log.Printf("provider %s failed for %s: %v", name, req.Day.Format("2006-01-02"), err)
			}
		}()
	}

	if p := s.providers.Atmospheric; p != nil {
		fetch(p.Name(), func(ctx context.Context) error {
			var err error
			atmos, err = p.FetchAtmospheric(ctx, req)
			return err
		}, &atmosErr)
	} else {
		atmosErr = ErrNotConfigured
	}

	if p := s.providers.Marine; p != nil {
		fetch(p.Name(), func(ctx context.Context) error {
			var err error
			marine, err = p.FetchMarine(ctx, req)
			return err
		}, &marErr)
	} else {
		marErr = ErrNotConfigured
	}

	if p := s.providers.TideHeights; p != nil {
		fetch(p.Name(), func(ctx context.Context) error {
			var err error
			tide, err = p.FetchTideHeights(ctx, req)
			return err
		}, &tideErr)
	} else {
		tideErr = ErrNotConfigured
	}

	if p := s.providers.Sun; p != nil {
		fetch(p.Name(), func(ctx context.Context) error {
			var err error
			sun, err = p.FetchSunTimes(ctx, req)
			return err
		}, &sunErr)
	} else {
		sunErr = ErrNotConfigured
	}

	// The overlay fetch runs outside the fan-in barrier: it gates
	// nothing, and a slow overlay provider must not delay the dataset.
	// Its result is attached only when it has settled by build time;
	// otherwise the overlay is simply absent until the next refresh.
	overlayCh := make(chan overlayResult, 1)
	if p := s.providers.TideEvents; p != nil {
		go func() {
			fctx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
			defer cancel()

			events, err := p.FetchTideEvents(fctx, req)
			if err != nil {
				s.metrics.ProviderFailures.WithLabelValues(p.Name()).Inc()
				log.Printf("provider %s failed for %s: %v", p.Name(), req.Day.Format("2006-01-02"), err)
			}
			overlayCh <- overlayResult{events: events, err: err}
		}()
	} else {
		overlayCh <- overlayResult{err: ErrNotConfigured}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		events   []TideEvent
		eventsOK bool
	)
	select {
	case res := <-overlayCh:
		events, eventsOK = res.events, res.err == nil
	default:
	}

	d := s.build(req, gen, buildInputs{
		atmos:    atmos,
		atmosOK:  atmosErr == nil,
		marine:   marine,
		marineOK: marErr == nil,
		tide:     tide,
		tideOK:   tideErr == nil,
		sun:      sun,
		sunOK:    sunErr == nil,
		events:   events,
		eventsOK: eventsOK,
	})

	s.metrics.AssemblyDuration.Observe(s.clock.Now().Sub(started).Seconds())
	if d.Offline {
		s.metrics.OfflineDatasets.Inc()
	}
	return d, nil
}

// overlayResult carries the tide-event overlay fetch across its
// dedicated goroutine boundary.
type overlayResult struct {
	events []TideEvent
	err    error
}

type buildInputs struct {
	atmos    AtmosphericReport
	atmosOK  bool
	marine   MarineReport
	marineOK bool
	tide     HourlySeries
	tideOK   bool
	sun      SunTimes
	sunOK    bool
	events   []TideEvent
	eventsOK bool
}

func (s *Service) build(req Request, gen uint64, in buildInputs) *Dataset {
	d := &Dataset{
		ID:          uuid.New(),
		Generation:  gen,
		Day:         req.Day,
		Hours:       req.Hours,
		Offline:     !in.atmosOK && !in.marineOK,
		AssembledAt: s.clock.Now(),
	}

	if in.atmosOK {
		d.Temperature = in.atmos.Temperature
		d.FeelsLike = in.atmos.FeelsLike
		d.Humidity = in.atmos.Humidity
		d.Pressure = in.atmos.Pressure
		d.WindSpeed = in.atmos.WindSpeed
		d.WindGusts = in.atmos.WindGusts
		d.WindDirection = in.atmos.WindDirection
		d.Rain = in.atmos.Rain
	} else {
		d.Temperature = MissingSeries()
		d.FeelsLike = MissingSeries()
		d.Humidity = MissingSeries()
		d.Pressure = MissingSeries()
		d.WindSpeed = MissingSeries()
		d.WindGusts = MissingSeries()
		d.WindDirection = MissingSeries()
		d.Rain = MissingSeries()
	}

	if in.marineOK {
		d.WaveHeight = in.marine.WaveHeight
		d.WavePeriod = in.marine.WavePeriod
		d.WaveDirection = in.marine.WaveDirection
		d.WaterTemp = in.marine.WaterTemp
	} else {
		d.WaveHeight = MissingSeries()
		d.WavePeriod = MissingSeries()
		d.WaveDirection = MissingSeries()
		d.WaterTemp = MissingSeries()
	}

	s.fillSynthetic(d)

	// Tide heights: authoritative provider when it answered, harmonic
	// synthesis otherwise. Extrema are derived from whichever curve is
	// in play, before clamping, on the raw heights.
	if in.tideOK {
		d.TideHeight = in.tide
	} else {
		d.TideHeight = SynthesizeTides(req.Hours)
	}
	d.Tides = FindExtrema(d.TideHeight, req.Hours)

	for _, m := range Metrics {
		series := d.Series(m)
		*series = Normalize(*series, BoundsFor(m))
	}

	for i := 0; i < HoursPerDay; i++ {
		d.Surfability[i] = Score(Conditions{
			WaveHeight:    d.WaveHeight[i],
			WindSpeed:     d.WindSpeed[i],
			Rain:          d.Rain[i],
			WindDirection: d.WindDirection[i],
			WavePeriod:    d.WavePeriod[i],
			WaveDirection: d.WaveDirection[i],
			AirTemp:       d.Temperature[i],
			WaterTemp:     d.WaterTemp[i],
		})
	}

	d.Sunrise, d.Sunset = s.resolveSunTimes(req, in)

	if in.eventsOK {
		d.TideEvents = trimOverlay(in.events, req.Day)
	}

	d.Sources = contributingSources(s.providers, in)
	return d
}

// fillSynthetic replaces every still-missing sample with the
// deterministic synthetic estimate, so no series is empty even before
// normalization.
func (s *Service) fillSynthetic(d *Dataset) {
	for i := 0; i < HoursPerDay; i++ {
		for _, m := range []Metric{
			MetricTemperature, MetricHumidity, MetricPressure,
			MetricWindSpeed, MetricWindDirection, MetricRain,
			MetricWaveHeight, MetricWavePeriod, MetricWaveDirection,
			MetricWaterTemp,
		} {
			series := d.Series(m)
			if IsMissing(series[i]) {
				series[i] = s.synth.Estimate(m, i)
			}
		}
		if IsMissing(d.FeelsLike[i]) {
			d.FeelsLike[i] = s.synth.EstimateFeelsLike(d.Temperature[i], i)
		}
		if IsMissing(d.WindGusts[i]) {
			d.WindGusts[i] = s.synth.EstimateGusts(d.WindSpeed[i], i)
		}
	}
}

func (s *Service) resolveSunTimes(req Request, in buildInputs) (time.Time, time.Time) {
	if in.sunOK && !in.sun.Sunrise.IsZero() && !in.sun.Sunset.IsZero() {
		return in.sun.Sunrise, in.sun.Sunset
	}
	if in.atmosOK && !in.atmos.Sunrise.IsZero() && !in.atmos.Sunset.IsZero() {
		return in.atmos.Sunrise, in.atmos.Sunset
	}
	return req.Day.Add(7 * time.Hour), req.Day.Add(19 * time.Hour)
}

// trimOverlay scopes overlay events to the day window, deduplicates
// to one event per minute, and caps the list.
func trimOverlay(events []TideEvent, day time.Time) []TideEvent {
	end := day.Add(HoursPerDay * time.Hour)

	inWindow := make([]TideEvent, 0, len(events))
	for _, ev := range events {
		if ev.Time.Before(day) || !ev.Time.Before(end) {
			continue
		}
		inWindow = append(inWindow, ev)
	}

	sort.Slice(inWindow, func(i, j int) bool {
		return inWindow[i].Time.Before(inWindow[j].Time)
	})

	var out []TideEvent
	seen := make(map[int64]struct{}, len(inWindow))
	for _, ev := range inWindow {
		minute := ev.Time.Unix() / 60
		if _, dup := seen[minute]; dup {
			continue
		}
		seen[minute] = struct{}{}
		out = append(out, ev)
		if len(out) == maxOverlayEvents {
			break
		}
	}
	return out
}

func contributingSources(p ProviderSet, in buildInputs) []string {
	var sources []string
	if in.atmosOK && p.Atmospheric != nil {
		sources = append(sources, p.Atmospheric.Name())
	}
	if in.marineOK && p.Marine != nil {
		sources = append(sources, p.Marine.Name())
	}
	if in.tideOK && p.TideHeights != nil {
		sources = append(sources, p.TideHeights.Name())
	}
	if in.sunOK && p.Sun != nil {
		sources = append(sources, p.Sun.Name())
	}
	if in.eventsOK && p.TideEvents != nil {
		sources = append(sources, p.TideEvents.Name())
	}
	return sources
}
