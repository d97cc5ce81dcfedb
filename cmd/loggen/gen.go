package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

type generator struct {
	rnd       *rand.Rand
	noise     float64
	multiline float64
}

func newGenerator(rnd *rand.Rand, noise, multiline float64) *generator {
	return &generator{rnd: rnd, noise: noise, multiline: multiline}
}

// line returns one line without its terminator: a JSON record most of the
// time, otherwise a noise line the viewer must skip.
func (g *generator) line(now time.Time) string {
	if g.rnd.Float64() < g.noise {
		return g.noiseLine(now)
	}
	b, err := json.Marshal(g.record(now))
	if err != nil {
		return ""
	}
	return string(b)
}

func (g *generator) record(now time.Time) map[string]any {
	rec := map[string]any{
		"timestamp":  now.UTC().Format(time.RFC3339Nano),
		"level":      g.level(),
		"message":    g.pick(messages),
		"service":    g.pick(services),
		"request_id": uuid.New().String(),
	}
	if g.rnd.Float64() < g.multiline {
		rec["level"] = "error"
		rec["message"] = g.stack()
	}
	switch g.rnd.Intn(3) {
	case 0:
		rec["latency_ms"] = float64(g.rnd.Intn(450000)) / 1000
	case 1:
		rec["http"] = map[string]any{
			"method": g.pick(methods),
			"path":   g.pick(paths),
			"status": g.status(),
		}
	}
	return rec
}

func (g *generator) noiseLine(now time.Time) string {
	switch g.rnd.Intn(5) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("[%s] %s %s: plain text line", now.UTC().Format(time.RFC3339), strings.ToUpper(g.level()), g.pick(services))
	case 2:
		return `["an","array"]`
	case 3:
		return `{"truncated": "record`
	default:
		return fmt.Sprint(g.rnd.Intn(10000))
	}
}

func (g *generator) stack() string {
	var b strings.Builder
	b.WriteString("panic: " + g.pick(messages))
	for i, n := 0, 2+g.rnd.Intn(4); i < n; i++ {
		fmt.Fprintf(&b, "\n\tat %s.handle%d (%s.go:%d)", g.pick(services), i, g.pick(services), 10+g.rnd.Intn(400))
	}
	return b.String()
}

func (g *generator) level() string {
	r := g.rnd.Float64()
	switch {
	case r < 0.6:
		return "info"
	case r < 0.8:
		return "debug"
	case r < 0.95:
		return "warn"
	default:
		return "error"
	}
}

func (g *generator) status() int {
	r := g.rnd.Float64()
	switch {
	case r < 0.75:
		return 200
	case r < 0.85:
		return 201
	case r < 0.93:
		return 404
	case r < 0.98:
		return 500
	default:
		return 302
	}
}

func (g *generator) pick(xs []string) string { return xs[g.rnd.Intn(len(xs))] }

var (
	messages = []string{
		"user authenticated",
		"request completed",
		"cache miss",
		"cache hit",
		"db query executed",
		"rate limit exceeded",
		"background job started",
		"background job finished",
		"invalid credentials",
		"payload validated",
	}
	services = []string{"api", "worker", "auth", "gateway", "billing"}
	methods  = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}
	paths    = []string{"/", "/health", "/login", "/logout", "/api/v1/items", "/static/app.js"}
)
