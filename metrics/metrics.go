package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	preCollectMutex sync.Mutex
	preCollectFns   []func()
)

// AddPreCollectFn registers a callback that refreshes gauges before they are scraped
func AddPreCollectFn(fn func()) {
	preCollectMutex.Lock()
	defer preCollectMutex.Unlock()
	preCollectFns = append(preCollectFns, fn)
}

func runPreCollectFns() {
	preCollectMutex.Lock()
	defer preCollectMutex.Unlock()
	for _, fn := range preCollectFns {
		fn()
	}
}

// StartMetricsServer serves the metrics on a dedicated listener until ctx is cancelled
func StartMetricsServer(ctx context.Context, logger logrus.FieldLogger, host string, port string) error {
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{
		Addr:              host + ":" + port,
		Handler:           GetMetricsHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	go func() {
		logger.Infof("metrics server listening on %v", srv.Addr)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("error serving metrics")
		}
	}()

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return nil
}

type metricsHandler struct {
	handler http.Handler
}

func GetMetricsHandler() http.Handler {
	return &metricsHandler{
		handler: promhttp.Handler(),
	}
}

func (mh *metricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	runPreCollectFns()
	mh.handler.ServeHTTP(w, r)
}
