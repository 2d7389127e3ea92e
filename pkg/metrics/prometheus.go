package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HistogramBuckets covers fast API responses up to slow statistic queries,
// in milliseconds.
var HistogramBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000,
	3000, 5000, 10000, 15000, 30000, 60000,
}

type NewPrometheusOptions struct {
	// Subsystem defaults to "gin".
	Subsystem string
	// ReqCntURLLabelMappingFn maps a request to the url label value; use it
	// to collapse parameterized routes into their route template.
	ReqCntURLLabelMappingFn func(c *gin.Context) string
	Logger                  *zap.SugaredLogger
}

// Prometheus exposes HTTP request metrics on a dedicated listener.
type Prometheus struct {
	reqCnt     *prometheus.CounterVec
	reqDur     *prometheus.HistogramVec
	reqSize    prometheus.Summary
	respSize   prometheus.Summary
	listenAddr string
	urlLabelFn func(c *gin.Context) string
	log        *zap.SugaredLogger
}

func NewPrometheus(opts NewPrometheusOptions) *Prometheus {
	subsystem := opts.Subsystem
	if subsystem == "" {
		subsystem = "gin"
	}
	urlFn := opts.ReqCntURLLabelMappingFn
	if urlFn == nil {
		urlFn = func(c *gin.Context) string { return c.Request.URL.Path }
	}

	p := &Prometheus{
		reqCnt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "How many HTTP requests processed, partitioned by status code, method and url.",
			},
			[]string{"code", "method", "url"},
		),
		reqDur: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      "request_duration_ms",
				Help:      "The HTTP request latency in milliseconds.",
				Buckets:   HistogramBuckets,
			},
			[]string{"code", "method", "url"},
		),
		reqSize: prometheus.NewSummary(prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      "request_size_bytes",
			Help:      "The HTTP request size in bytes.",
		}),
		respSize: prometheus.NewSummary(prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      "response_size_bytes",
			Help:      "The HTTP response size in bytes.",
		}),
		urlLabelFn: urlFn,
		log:        opts.Logger,
	}
	prometheus.MustRegister(p.reqCnt, p.reqDur, p.reqSize, p.respSize)
	return p
}

// SetListenAddress configures the dedicated metrics listener address.
func (p *Prometheus) SetListenAddress(addr string) {
	p.listenAddr = addr
}

// Use attaches the recording middleware to the engine and, when a listen
// address is set, serves /metrics on its own HTTP server.
func (p *Prometheus) Use(r *gin.Engine) {
	r.Use(p.handlerFunc())

	if p.listenAddr == "" {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
		return
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(p.listenAddr, mux); err != nil && p.log != nil {
			p.log.Errorw("metrics listener stopped", "addr", p.listenAddr, "err", err)
		}
	}()
}

func (p *Prometheus) handlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		reqSize := computeApproximateRequestSize(c.Request)

		c.Next()

		status := http.StatusText(c.Writer.Status())
		url := p.urlLabelFn(c)

		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(float64(time.Since(start).Milliseconds()))
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.reqSize.Observe(float64(reqSize))
		p.respSize.Observe(float64(c.Writer.Size()))
	}
}

func computeApproximateRequestSize(r *http.Request) int {
	s := len(r.URL.Path) + len(r.Method) + len(r.Proto) + len(r.Host)
	for name, values := range r.Header {
		s += len(name)
		for _, v := range values {
			s += len(v)
		}
	}
	if r.ContentLength > 0 {
		s += int(r.ContentLength)
	}
	return s
}
