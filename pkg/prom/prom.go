package prom

import (
	"fmt"
	"sync"

	xhttp "github.com/mkarimz/deduction-gateway/pkg/http"
	"github.com/mkarimz/deduction-gateway/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemWorkflow = "workflow"
)

const (
	MetricApprovalsTotal        = "approvals_total"
	MetricApprovalFailuresTotal = "approval_failures_total"
	MetricCancellationsTotal    = "cancellations_total"
)

var createMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var counterVecs = make(map[string]*prometheus.CounterVec)

var defaultLabels prometheus.Labels

// Create registers the service's metric families. host/env become constant
// labels on every series.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemWorkflow, MetricApprovalsTotal, []string{"result"}))
	hasError(createCounterVec(SystemWorkflow, MetricApprovalFailuresTotal, []string{"step"}))
	hasError(createCounterVec(SystemWorkflow, MetricCancellationsTotal, []string{"result"}))

	return err
}

func createCounterVec(subsystem, name string, labels []string) error {
	createMetricLock.Lock()
	defer createMetricLock.Unlock()

	key := subsystem + "_" + name
	if _, ok := counterVecs[key]; ok {
		return fmt.Errorf("metric %s already registered", key)
	}

	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	}, labels)

	if err := prometheus.Register(cv); err != nil {
		return err
	}
	counterVecs[key] = cv
	return nil
}

// IncCounterVec is a no-op until Create has run, so library code can record
// unconditionally.
func IncCounterVec(subsystem, name string, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	cv, ok := counterVecs[subsystem+"_"+name]
	if !ok {
		logger.Warn("unknown metric", "subsystem", subsystem, "name", name)
		return
	}
	cv.WithLabelValues(labelValues...).Inc()
}

// ListenAndServe exposes /metrics on its own listener.
func ListenAndServe(addr string, uri string) {
	if uri == "" {
		uri = "/metrics"
	}
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Router.GET(uri, hh)
	go func() {
		if err := s.ListenAndServe(addr); err != nil {
			logger.Error("metrics listener stopped", "error", err)
		}
	}()
}
