package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/consult-booking/internal/api/handlers"
	"github.com/m04kA/consult-booking/internal/domain"
)

const (
	limiterIdleTTL         = 10 * time.Minute
	limiterCleanupInterval = time.Minute
	// maxVisitors верхняя граница числа отслеживаемых адресов
	maxVisitors = 10000
)

// codeRateLimited код ошибки транспортного уровня, в domain его нет
const codeRateLimited domain.ErrorCode = "RateLimited"

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP.
// X-Forwarded-For учитывается только от доверенных прокси.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	rps         rate.Limit
	burst       int
	maxVisitors int
	trusted     []*net.IPNet
	metrics     Metrics
	logger      Logger
	now         func() time.Time
}

// NewRateLimiter создает ограничитель: rps запросов в секунду с запасом burst.
// trustedProxies: IP или CIDR прокси, которым разрешено передавать X-Forwarded-For.
func NewRateLimiter(rps float64, burst int, trustedProxies []string, metrics Metrics, logger Logger) (*RateLimiter, error) {
	trusted, err := ParseTrustedProxies(trustedProxies)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		visitors:    make(map[string]*visitor),
		rps:         rate.Limit(rps),
		burst:       burst,
		maxVisitors: maxVisitors,
		trusted:     trusted,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// ParseTrustedProxies разбирает список IP и CIDR
func ParseTrustedProxies(values []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if !strings.Contains(value, "/") {
			ip := net.ParseIP(value)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", raw)
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(value)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// Middleware отвечает 429 при превышении лимита
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if !l.allow(ip) {
			l.logger.Warn("RateLimit: %s %s from %s rejected", r.Method, r.URL.Path, ip)
			if l.metrics != nil {
				l.metrics.IncRateLimited(routeTemplate(r))
			}
			w.Header().Set("Retry-After", "1")
			handlers.RespondError(w, r, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run периодически удаляет простаивающие записи до закрытия stopCh
func (l *RateLimiter) Run(stopCh <-chan struct{}) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			l.pruneIdle(l.now())
			l.mu.Unlock()
		case <-stopCh:
			return
		}
	}
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		if len(l.visitors) >= l.maxVisitors {
			l.pruneIdle(now)
			if len(l.visitors) >= l.maxVisitors {
				l.evictOldest()
			}
		}
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// pruneIdle вызывается под mu
func (l *RateLimiter) pruneIdle(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(l.visitors, key)
		}
	}
}

// evictOldest вызывается под mu
func (l *RateLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, v := range l.visitors {
		if oldestKey == "" || v.lastSeen.Before(oldest) {
			oldestKey, oldest = key, v.lastSeen
		}
	}
	delete(l.visitors, oldestKey)
}

func (l *RateLimiter) visitorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// clientIP адрес соединения; за доверенным прокси берется самый правый
// недоверенный адрес из X-Forwarded-For
func (l *RateLimiter) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !l.isTrusted(peer) {
		return peer
	}

	fwd := r.Header.Values("X-Forwarded-For")
	hops := strings.Split(strings.Join(fwd, ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if net.ParseIP(hop) == nil {
			// Мусор в заголовке: дальше цепочке верить нельзя
			return peer
		}
		if !l.isTrusted(hop) {
			return hop
		}
	}
	return peer
}

func (l *RateLimiter) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range l.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
