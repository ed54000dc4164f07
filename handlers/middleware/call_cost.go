package middleware

import (
	"context"
	"net/http"
	"sync"
)

type callCostKey string

const (
	contextKeyCallCost callCostKey = "call_cost"

	// DefaultCallCost is charged for routes without an explicit cost
	DefaultCallCost uint = 1
)

var (
	routeCosts = map[string]uint{}
	costMutex  sync.RWMutex
)

func routeCostKey(method, path string) string {
	return method + " " + path
}

// SetEndpointCost sets the call cost of a route. A cost of 0 exempts the route from rate limiting.
func SetEndpointCost(method, path string, cost uint) {
	costMutex.Lock()
	defer costMutex.Unlock()
	routeCosts[routeCostKey(method, path)] = cost
}

// CallCostMiddleware stores the cost of the requested route in the request context
func CallCostMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		costMutex.RLock()
		cost, exists := routeCosts[routeCostKey(r.Method, r.URL.Path)]
		costMutex.RUnlock()

		if !exists {
			cost = DefaultCallCost
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKeyCallCost, cost)))
	})
}

// GetCallCost returns the cost stored by CallCostMiddleware
func GetCallCost(r *http.Request) uint {
	if cost, ok := r.Context().Value(contextKeyCallCost).(uint); ok {
		return cost
	}
	return DefaultCallCost
}
