package view

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/chart"
	"github.com/Wilaroo/Trading-and-Analysis-Platform-sub002/internal/model"
)

// fakeSurface records lifecycle calls.
type fakeSurface struct {
	mu        sync.Mutex
	width     int
	height    int
	series    []chart.SeriesKind
	destroyed int
}

func (s *fakeSurface) AddSeries(kind chart.SeriesKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = append(s.series, kind)
	return nil
}

func (s *fakeSurface) SetSeriesData(kind chart.SeriesKind, bars []model.Bar) error { return nil }

func (s *fakeSurface) FitContent() {}

func (s *fakeSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *fakeSurface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed++
}

func (s *fakeSurface) destroyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// fakeFactory hands out fake surfaces, optionally failing or blocking.
type fakeFactory struct {
	mu       sync.Mutex
	created  []*fakeSurface
	failNext int
	block    chan struct{} // when non-nil, Create waits on it
}

func (f *fakeFactory) Create(width, height int) (chart.Surface, error) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNext > 0 {
		f.failNext--
		return nil, errors.New("canvas unavailable")
	}

	s := &fakeSurface{width: width, height: height}
	f.created = append(f.created, s)
	return s, nil
}

func (f *fakeFactory) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// fakeContainer reports a fixed size, or unmeasurable when ok is false.
type fakeContainer struct {
	width  int
	height int
	ok     bool
}

func (c *fakeContainer) Size() (int, int, bool) { return c.width, c.height, c.ok }

func testConfig() Config {
	return Config{
		SettleDelay:   10 * time.Millisecond,
		DefaultWidth:  800,
		DefaultHeight: 480,
	}
}

func preset(label string) model.TimeframePreset {
	p, ok := model.PresetByLabel(label)
	if !ok {
		panic("unknown preset " + label)
	}
	return p
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestController_SelectCreatesSurface(t *testing.T) {
	factory := &fakeFactory{}
	container := &fakeContainer{width: 1024, height: 600, ok: true}

	c := NewController(testConfig(), factory, container, nil, nil)
	defer c.Close()

	epoch := c.Select("AAPL", preset("5m"))

	waitFor(t, func() bool {
		_, ok := c.SurfaceFor(epoch)
		return ok
	})

	surface := factory.created[0]
	if surface.width != 1024 || surface.height != 600 {
		t.Errorf("surface size = %dx%d, want 1024x600", surface.width, surface.height)
	}
	if len(surface.series) != 2 {
		t.Errorf("series count = %d, want 2 (price + volume)", len(surface.series))
	}

	symbol, p, cur := c.Current()
	if symbol != "AAPL" || p.Label != "5m" || cur != epoch {
		t.Errorf("Current = (%s, %s, %d), want (AAPL, 5m, %d)", symbol, p.Label, cur, epoch)
	}
}

func TestController_DoubleSelectBindsOnlySecondEpoch(t *testing.T) {
	factory := &fakeFactory{}
	container := &fakeContainer{width: 800, height: 480, ok: true}

	cfg := testConfig()
	cfg.SettleDelay = 50 * time.Millisecond

	c := NewController(cfg, factory, container, nil, nil)
	defer c.Close()

	first := c.Select("AAPL", preset("5m"))
	second := c.Select("MSFT", preset("1h"))

	waitFor(t, func() bool {
		_, ok := c.SurfaceFor(second)
		return ok
	})

	if _, ok := c.SurfaceFor(first); ok {
		t.Error("superseded epoch must not resolve a surface")
	}

	// The first selection's allocation was cancelled inside the settle window,
	// so only one surface was ever created.
	if got := factory.createdCount(); got != 1 {
		t.Errorf("createdCount = %d, want 1", got)
	}
}

func TestController_SupersededDuringCreationIsDestroyed(t *testing.T) {
	factory := &fakeFactory{block: make(chan struct{})}
	container := &fakeContainer{width: 800, height: 480, ok: true}

	c := NewController(testConfig(), factory, container, nil, nil)
	defer c.Close()

	first := c.Select("AAPL", preset("5m"))

	// Let the first allocation enter Create, then reselect while it blocks.
	time.Sleep(30 * time.Millisecond)
	second := c.Select("MSFT", preset("1h"))

	// Unblock: the first Create returns into a stale epoch, the second
	// proceeds normally.
	factory.mu.Lock()
	block := factory.block
	factory.block = nil
	factory.mu.Unlock()
	close(block)

	waitFor(t, func() bool {
		_, ok := c.SurfaceFor(second)
		return ok
	})

	if _, ok := c.SurfaceFor(first); ok {
		t.Error("stale epoch must not resolve a surface")
	}

	waitFor(t, func() bool { return factory.createdCount() == 2 })

	// The surface born into the stale epoch must have been destroyed.
	var destroyed int
	factory.mu.Lock()
	for _, s := range factory.created {
		destroyed += s.destroyCount()
	}
	factory.mu.Unlock()
	if destroyed != 1 {
		t.Errorf("destroyed = %d, want exactly the stale surface", destroyed)
	}
}

func TestController_UnmeasurableContainerUsesDefaults(t *testing.T) {
	factory := &fakeFactory{}
	container := &fakeContainer{ok: false}

	c := NewController(testConfig(), factory, container, nil, nil)
	defer c.Close()

	epoch := c.Select("AAPL", preset("1d"))

	waitFor(t, func() bool {
		_, ok := c.SurfaceFor(epoch)
		return ok
	})

	surface := factory.created[0]
	if surface.width != 800 || surface.height != 480 {
		t.Errorf("surface size = %dx%d, want default 800x480", surface.width, surface.height)
	}
}

func TestController_CreationFailureRetries(t *testing.T) {
	factory := &fakeFactory{failNext: 2}
	container := &fakeContainer{width: 800, height: 480, ok: true}

	c := NewController(testConfig(), factory, container, nil, nil)
	defer c.Close()

	epoch := c.Select("AAPL", preset("5m"))

	// Two failures, then success on the settle cadence.
	waitFor(t, func() bool {
		_, ok := c.SurfaceFor(epoch)
		return ok
	})
}

func TestController_ResizeKeepsEpoch(t *testing.T) {
	factory := &fakeFactory{}
	container := &fakeContainer{width: 800, height: 480, ok: true}

	c := NewController(testConfig(), factory, container, nil, nil)
	defer c.Close()

	epoch := c.Select("AAPL", preset("5m"))
	waitFor(t, func() bool {
		_, ok := c.SurfaceFor(epoch)
		return ok
	})

	c.Resize(1280, 720)

	if got := c.Epoch(); got != epoch {
		t.Errorf("Epoch = %d after resize, want %d", got, epoch)
	}
	if _, ok := c.SurfaceFor(epoch); !ok {
		t.Error("surface must remain bound after resize")
	}

	surface := factory.created[0]
	surface.mu.Lock()
	w, h := surface.width, surface.height
	surface.mu.Unlock()
	if w != 1280 || h != 720 {
		t.Errorf("surface size = %dx%d after resize, want 1280x720", w, h)
	}
}

func TestController_CloseDestroysSurface(t *testing.T) {
	factory := &fakeFactory{}
	container := &fakeContainer{width: 800, height: 480, ok: true}

	c := NewController(testConfig(), factory, container, nil, nil)

	epoch := c.Select("AAPL", preset("5m"))
	waitFor(t, func() bool {
		_, ok := c.SurfaceFor(epoch)
		return ok
	})

	c.Close()

	if _, ok := c.SurfaceFor(epoch); ok {
		t.Error("surface must not resolve after Close")
	}
	if got := factory.created[0].destroyCount(); got != 1 {
		t.Errorf("destroyCount = %d, want 1", got)
	}

	// Close is idempotent.
	c.Close()
	if got := factory.created[0].destroyCount(); got != 1 {
		t.Errorf("destroyCount = %d after second Close, want 1", got)
	}
}
