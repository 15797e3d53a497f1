// Package navigator defines the closed set of views the login flow can move to.
package navigator

import "sync"

// maxHistory Tracker 保留的歷程筆數上限
const maxHistory = 32

// Route 具名的目的地畫面
type Route string

const (
	// RouteLogin 登入畫面
	RouteLogin Route = "/"
	// RouteDashboard 登入後的落地頁
	RouteDashboard Route = "/dashboard"
)

// Valid 檢查是否為已知路由
func (r Route) Valid() bool {
	switch r {
	case RouteLogin, RouteDashboard:
		return true
	}
	return false
}

// Navigator 負責畫面切換
type Navigator interface {
	GoTo(route Route)
}

// Func adapts a plain function to Navigator.
type Func func(route Route)

// GoTo calls f.
func (f Func) GoTo(route Route) { f(route) }

// Tracker 記錄目前所在畫面，供無畫面的呈現層（例如 HTTP API）查詢
type Tracker struct {
	mu      sync.RWMutex
	current Route
	history []Route
}

// NewTracker 以 start 作為初始畫面
func NewTracker(start Route) *Tracker {
	return &Tracker{current: start}
}

// GoTo 切換畫面並記錄歷程，只保留最近 maxHistory 筆
func (t *Tracker) GoTo(route Route) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = route
	if len(t.history) == maxHistory {
		copy(t.history, t.history[1:])
		t.history = t.history[:maxHistory-1]
	}
	t.history = append(t.history, route)
}

// Current 目前畫面
func (t *Tracker) Current() Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// History 回傳最近 GoTo 呼叫的複本，由舊到新
func (t *Tracker) History() []Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Route, len(t.history))
	copy(out, t.history)
	return out
}
