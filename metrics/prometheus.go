package metrics

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
)

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	orderCounter       *prometheus.CounterVec
	tradeCounter       *prometheus.CounterVec
	tickCounter        prometheus.Counter
	feePoolGauge       *prometheus.GaugeVec
	tokenSupplyGauge   prometheus.Gauge
	collateralGauge    prometheus.Gauge
	restingOrdersGauge *prometheus.GaugeVec
)

// abstract prometheus types
type instrument int

// combine all possible prometheus options + way to differentiate between regular or vector type
type instrumentOpts struct {
	opts    prometheus.Opts
	vectors []string
}

type mi struct {
	gaugeV   *prometheus.GaugeVec
	gauge    prometheus.Gauge
	counterV *prometheus.CounterVec
	counter  prometheus.Counter
}

// InstrumentOption - vararg for instrument options setting
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// AddInstrument configure and register new metrics instrument
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := prometheus.GaugeOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := prometheus.CounterOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := prometheus.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Start enable metrics (given config)
func Start(conf Config) {
	if !conf.Enabled {
		return
	}
	if err := setupMetrics(); err != nil {
		panic("could not set up metrics")
	}
	http.Handle(conf.Path, promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", conf.Port), nil))
	}()
}

// Gauge returns a prometheus Gauge instrument
func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

// GaugeVec returns a prometheus GaugeVec instrument
func (m mi) GaugeVec() (*prometheus.GaugeVec, error) {
	if m.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gaugeV, nil
}

// Counter returns a prometheus Counter instrument
func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

// CounterVec returns a prometheus CounterVec instrument
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func setupMetrics() error {
	h, err := AddInstrument(
		Counter,
		"orders_total",
		Namespace("pegsim"),
		Vectors("book", "side"),
		Help("Number of orders submitted"),
	)
	if err != nil {
		return err
	}
	if orderCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"trades_total",
		Namespace("pegsim"),
		Vectors("book"),
		Help("Number of trades settled"),
	)
	if err != nil {
		return err
	}
	if tradeCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"ticks_total",
		Namespace("pegsim"),
		Help("Number of simulation ticks executed"),
	)
	if err != nil {
		return err
	}
	if tickCounter, err = h.Counter(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"fee_pool",
		Namespace("pegsim"),
		Vectors("asset"),
		Help("Undistributed fees held by the system per asset"),
	)
	if err != nil {
		return err
	}
	if feePoolGauge, err = h.GaugeVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"token_supply",
		Namespace("pegsim"),
		Help("Tokens currently in circulation"),
	)
	if err != nil {
		return err
	}
	if tokenSupplyGauge, err = h.Gauge(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"collateralisation",
		Namespace("pegsim"),
		Help("Global collateralisation ratio"),
	)
	if err != nil {
		return err
	}
	if collateralGauge, err = h.Gauge(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"resting_orders",
		Namespace("pegsim"),
		Vectors("book"),
		Help("Number of orders resting on each book"),
	)
	if err != nil {
		return err
	}
	if restingOrdersGauge, err = h.GaugeVec(); err != nil {
		return err
	}

	return nil
}

// OrderCounterInc increments the order counter
func OrderCounterInc(labelValues ...string) {
	if orderCounter == nil {
		return
	}
	orderCounter.WithLabelValues(labelValues...).Inc()
}

// TradeCounterInc increments the trade counter
func TradeCounterInc(labelValues ...string) {
	if tradeCounter == nil {
		return
	}
	tradeCounter.WithLabelValues(labelValues...).Inc()
}

// TickCounterInc increments the simulation tick counter
func TickCounterInc() {
	if tickCounter == nil {
		return
	}
	tickCounter.Inc()
}

// FeePoolSet updates the undistributed fee gauge for an asset
func FeePoolSet(asset string, v float64) {
	if feePoolGauge == nil {
		return
	}
	feePoolGauge.WithLabelValues(asset).Set(v)
}

// TokenSupplySet updates the circulating token supply gauge
func TokenSupplySet(v float64) {
	if tokenSupplyGauge == nil {
		return
	}
	tokenSupplyGauge.Set(v)
}

// CollateralisationSet updates the global collateralisation gauge
func CollateralisationSet(v float64) {
	if collateralGauge == nil {
		return
	}
	collateralGauge.Set(v)
}

// RestingOrdersSet updates the resting order count for a book
func RestingOrdersSet(book string, n int) {
	if restingOrdersGauge == nil {
		return
	}
	restingOrdersGauge.WithLabelValues(book).Set(float64(n))
}
