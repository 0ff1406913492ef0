package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/lifecycle"
	"github.com/Jayasakthi-07/foodie/internal/notify"
	testhelpers "github.com/Jayasakthi-07/foodie/internal/test"
)

func newProgressor(store ProgressStore, pub notify.Publisher, clock *testhelpers.Clock, opts ...Option) *AutoProgressor {
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewAutoProgressor(store, pub, lifecycle.DefaultTimeline, time.Hour, discardLogger(), opts...)
}

func TestAutoProgressorAdvancesAndPublishes(t *testing.T) {
	store := testhelpers.NewOrderStore(newOrder("o1", t0))
	pub := &testhelpers.PublisherStub{}
	clock := testhelpers.NewClock(t0.Add(31 * time.Second))

	report, err := newProgressor(store, pub, clock).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Fetched)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, model.OrderStatusConfirmed, storedStatus(store, "o1"))

	published := pub.All()
	require.Len(t, published, 2)
	assert.Equal(t, "order:o1", published[0].Topic)
	assert.Equal(t, "user:user-o1", published[1].Topic)
	assert.Equal(t, notify.EventOrderUpdated, published[0].Event.Name)
	assert.Equal(t, notify.OrderUpdated{
		OrderID:      "o1",
		Status:       model.OrderStatusConfirmed,
		UserID:       "user-o1",
		RestaurantID: "rest-1",
	}, published[0].Event.Payload)
}

func TestAutoProgressorNoDuplicateNotification(t *testing.T) {
	store := testhelpers.NewOrderStore(newOrder("o1", t0))
	pub := &testhelpers.PublisherStub{}
	clock := testhelpers.NewClock(t0.Add(35 * time.Second))
	p := newProgressor(store, pub, clock)

	_, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, pub.All(), 2)
	require.Equal(t, 1, store.TransitionCount())

	clock.Advance(5 * time.Second)
	report, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Unchanged)
	assert.Equal(t, 0, report.Applied)
	assert.Len(t, pub.All(), 2)
	assert.Equal(t, 1, store.TransitionCount())
}

func TestAutoProgressorSkipsAhead(t *testing.T) {
	store := testhelpers.NewOrderStore(newOrder("o1", t0))
	pub := &testhelpers.PublisherStub{}
	clock := testhelpers.NewClock(t0.Add(10 * time.Second))
	p := newProgressor(store, pub, clock)

	_, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, storedStatus(store, "o1"))
	assert.Empty(t, pub.All())

	clock.Set(t0.Add(200 * time.Second))
	_, err = p.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusDelivered, storedStatus(store, "o1"))
	require.Len(t, pub.ForTopic("order:o1"), 1)
	require.Equal(t, 1, store.TransitionCount())
	assert.Equal(t, model.OrderStatusPending, store.Transitions[0].From)
	assert.Equal(t, model.OrderStatusDelivered, store.Transitions[0].To)
}

func TestAutoProgressorLeavesDormantOrdersAlone(t *testing.T) {
	store := testhelpers.NewOrderStore(scheduledOrder("o1", t0, t0.Add(10*time.Minute)))
	pub := &testhelpers.PublisherStub{}
	clock := testhelpers.NewClock(t0)
	p := newProgressor(store, pub, clock)

	for _, at := range []time.Duration{30 * time.Second, 5 * time.Minute, 9 * time.Minute, 11 * time.Minute} {
		clock.Set(t0.Add(at))
		report, err := p.RunCycle(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Dormant, "at %s", at)
		assert.Equal(t, model.OrderStatusPending, storedStatus(store, "o1"))
	}
	assert.Empty(t, pub.All())
	assert.Zero(t, store.TransitionCount())
}

func TestAutoProgressorNeverTouchesTerminalOrders(t *testing.T) {
	cancelled := newOrder("c1", t0)
	cancelled.Status = model.OrderStatusCancelled
	deliveredAt := t0.Add(3 * time.Minute)
	delivered := newOrder("d1", t0)
	delivered.Status = model.OrderStatusDelivered
	delivered.DeliveredAt = &deliveredAt

	returned := []model.Order{cancelled, delivered}
	store := testhelpers.NewOrderStore(cancelled, delivered)
	store.FindActiveFn = func(context.Context) ([]model.Order, error) { return returned, nil }
	pub := &testhelpers.PublisherStub{}

	report, err := newProgressor(store, pub, testhelpers.NewClock(t0.Add(time.Hour))).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Unchanged)
	assert.Zero(t, store.TransitionCount())
	assert.Empty(t, pub.All())

	store.FindActiveFn = nil
	active, err := store.FindActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAutoProgressorSkipsMalformedOrders(t *testing.T) {
	unknown := newOrder("bad1", t0)
	unknown.Status = "lost"
	noCreated := newOrder("bad2", time.Time{})
	good := newOrder("good", t0)

	store := testhelpers.NewOrderStore(unknown, noCreated, good)
	pub := &testhelpers.PublisherStub{}
	report, err := newProgressor(store, pub, testhelpers.NewClock(t0.Add(time.Minute))).RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Malformed)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, model.OrderStatusPreparing, storedStatus(store, "good"))
	assert.Equal(t, model.OrderStatus("lost"), storedStatus(store, "bad1"))
}

func TestAutoProgressorIsolatesPerOrderFailures(t *testing.T) {
	store := testhelpers.NewOrderStore(newOrder("o1", t0), newOrder("o2", t0), newOrder("o3", t0))
	inner := testhelpers.NewOrderStore(newOrder("o1", t0), newOrder("o2", t0), newOrder("o3", t0))
	store.TransitionFn = func(ctx context.Context, id string, from, to model.OrderStatus, at *time.Time) (*model.Order, error) {
		if id == "o2" {
			return nil, errors.New("connection reset")
		}
		return inner.TransitionStatus(ctx, id, from, to, at)
	}
	pub := &testhelpers.PublisherStub{}

	report, err := newProgressor(store, pub, testhelpers.NewClock(t0.Add(time.Minute))).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Fetched)
	assert.Equal(t, 2, report.Applied)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, pub.ForTopic("order:o2"))
	assert.Len(t, pub.ForTopic("order:o1"), 1)
	assert.Len(t, pub.ForTopic("order:o3"), 1)
}

func TestAutoProgressorPublishFailureKeepsWrite(t *testing.T) {
	store := testhelpers.NewOrderStore(newOrder("o1", t0))
	pub := &testhelpers.PublisherStub{Err: errors.New("hub down")}

	report, err := newProgressor(store, pub, testhelpers.NewClock(t0.Add(time.Minute))).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, model.OrderStatusPreparing, storedStatus(store, "o1"))
	assert.Equal(t, 1, store.TransitionCount())
	assert.Len(t, pub.All(), 2)
}

func TestAutoProgressorFetchFailure(t *testing.T) {
	store := testhelpers.NewOrderStore()
	store.FindActiveFn = func(context.Context) ([]model.Order, error) { return nil, errors.New("db unreachable") }

	_, err := newProgressor(store, &testhelpers.PublisherStub{}, testhelpers.NewClock(t0)).RunCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch active orders")
}

func TestAutoProgressorLostRaceIsNotPublished(t *testing.T) {
	order := newOrder("o1", t0)
	store := testhelpers.NewOrderStore(order)
	store.FindActiveFn = func(context.Context) ([]model.Order, error) {
		return []model.Order{order}, nil
	}
	cancelled := order
	cancelled.Status = model.OrderStatusCancelled
	store.Put(cancelled)
	pub := &testhelpers.PublisherStub{}

	report, err := newProgressor(store, pub, testhelpers.NewClock(t0.Add(time.Minute))).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Conflicts)
	assert.Equal(t, model.OrderStatusCancelled, storedStatus(store, "o1"))
	assert.Empty(t, pub.All())
}

func TestAutoProgressorSetsDeliveredAtOnce(t *testing.T) {
	store := testhelpers.NewOrderStore(newOrder("o1", t0))
	clock := testhelpers.NewClock(t0.Add(181 * time.Second))
	p := newProgressor(store, &testhelpers.PublisherStub{}, clock)

	_, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	o, _ := store.Order("o1")
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, t0.Add(181*time.Second), *o.DeliveredAt)

	clock.Advance(time.Hour)
	_, err = p.RunCycle(context.Background())
	require.NoError(t, err)
	o, _ = store.Order("o1")
	assert.Equal(t, t0.Add(181*time.Second), *o.DeliveredAt)
	assert.Equal(t, 1, store.TransitionCount())
}

func TestAutoProgressorStatusesAreMonotonic(t *testing.T) {
	store := testhelpers.NewOrderStore(newOrder("o1", t0))
	clock := testhelpers.NewClock(t0)
	p := newProgressor(store, &testhelpers.PublisherStub{}, clock)

	prev := lifecycle.Rank(model.OrderStatusPending)
	for i := 0; i < 50; i++ {
		clock.Advance(5 * time.Second)
		_, err := p.RunCycle(context.Background())
		require.NoError(t, err)
		rank := lifecycle.Rank(storedStatus(store, "o1"))
		require.GreaterOrEqual(t, rank, prev)
		prev = rank
	}
	assert.Equal(t, model.OrderStatusDelivered, storedStatus(store, "o1"))
	assert.Equal(t, len(lifecycle.Progression)-1, store.TransitionCount())
}

func TestAutoProgressorBoundsConcurrency(t *testing.T) {
	var orders []model.Order
	for i := 0; i < 20; i++ {
		orders = append(orders, newOrder(fmt.Sprintf("o%02d", i), t0))
	}
	store := testhelpers.NewOrderStore(orders...)
	inner := testhelpers.NewOrderStore(orders...)

	var inFlight, peak int32
	store.TransitionFn = func(ctx context.Context, id string, from, to model.OrderStatus, at *time.Time) (*model.Order, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return inner.TransitionStatus(ctx, id, from, to, at)
	}

	p := newProgressor(store, &testhelpers.PublisherStub{}, testhelpers.NewClock(t0.Add(time.Minute)), WithWorkers(3))
	report, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, report.Applied)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestAutoProgressorRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	store := testhelpers.NewOrderStore(newOrder("o1", t0), newOrder("o2", t0))

	p := newProgressor(store, &testhelpers.PublisherStub{}, testhelpers.NewClock(t0.Add(time.Minute)), WithMeter(provider.Meter("test")))
	_, err := p.RunCycle(context.Background())
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	names := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = m.Data
		}
	}
	require.Contains(t, names, "scheduler.transitions")
	require.Contains(t, names, "scheduler.cycle.duration")
	sum, ok := names["scheduler.transitions"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func TestAutoProgressorStartRunsImmediatelyAndStops(t *testing.T) {
	store := testhelpers.NewOrderStore(newOrder("o1", t0))
	pub := &testhelpers.PublisherStub{}
	p := NewAutoProgressor(store, pub, lifecycle.DefaultTimeline, time.Hour, discardLogger(),
		WithClock(func() time.Time { return t0.Add(time.Minute) }))

	p.Start(context.Background())
	require.Eventually(t, func() bool {
		return storedStatus(store, "o1") == model.OrderStatusPreparing
	}, time.Second, 5*time.Millisecond)
	p.Stop()
	p.Stop()
}

func TestAutoProgressorTicks(t *testing.T) {
	store := testhelpers.NewOrderStore()
	var cycles int32
	store.FindActiveFn = func(context.Context) ([]model.Order, error) {
		atomic.AddInt32(&cycles, 1)
		return nil, nil
	}
	p := NewAutoProgressor(store, &testhelpers.PublisherStub{}, lifecycle.DefaultTimeline, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&cycles) >= 3 }, time.Second, 5*time.Millisecond)
	p.Stop()

	after := atomic.LoadInt32(&cycles)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&cycles))
}

func TestAutoProgressorKeepsTickingAfterFetchFailure(t *testing.T) {
	store := testhelpers.NewOrderStore()
	var calls int32
	store.FindActiveFn = func(context.Context) ([]model.Order, error) {
		atomic.AddInt32(&calls, 1)
		return nil, domainErrors.ErrNotFound
	}
	p := NewAutoProgressor(store, &testhelpers.PublisherStub{}, lifecycle.DefaultTimeline, 5*time.Millisecond, discardLogger())
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 5*time.Millisecond)
}
