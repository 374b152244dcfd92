package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	calls []observed
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, observed{method, route, status})
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RateLimiter", func() {
	It("rejects a client once its burst is spent and leaves others alone", func() {
		rejected := 0
		rl := NewRateLimiter(0.001, 2).OnReject(func() { rejected++ })
		h := rl.Middleware(ok)

		hit := func(ip string) int {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = ip + ":5555"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec.Code
		}

		Expect(hit("10.0.0.1")).To(Equal(http.StatusOK))
		Expect(hit("10.0.0.1")).To(Equal(http.StatusOK))
		Expect(hit("10.0.0.1")).To(Equal(http.StatusTooManyRequests))
		Expect(hit("10.0.0.2")).To(Equal(http.StatusOK))
		Expect(rejected).To(Equal(1))
	})

	Describe("client address", func() {
		request := func(remote string, headers map[string]string) *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = remote
			for k, v := range headers {
				req.Header.Set(k, v)
			}
			return req
		}

		It("ignores forwarding headers when no proxy is trusted", func() {
			rl := NewRateLimiter(1, 1)
			req := request("198.51.100.7:4000", map[string]string{
				"X-Forwarded-For": "203.0.113.9",
				"X-Real-IP":       "203.0.113.10",
			})
			Expect(rl.clientIP(req)).To(Equal("198.51.100.7"))
		})

		It("does not let rotating headers bypass the limit", func() {
			rl := NewRateLimiter(0.001, 1)
			h := rl.Middleware(ok)

			codes := make([]int, 0, 3)
			for _, forged := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, request("198.51.100.7:4000", map[string]string{"X-Forwarded-For": forged}))
				codes = append(codes, rec.Code)
			}

			Expect(codes).To(Equal([]int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}))
		})

		It("reads the nearest untrusted hop behind a trusted proxy", func() {
			rl, err := NewRateLimiter(1, 1).TrustProxies([]string{"10.0.0.0/8"})
			Expect(err).NotTo(HaveOccurred())

			req := request("10.0.0.2:4000", map[string]string{"X-Forwarded-For": "1.1.1.1, 203.0.113.9, 10.0.0.5"})
			Expect(rl.clientIP(req)).To(Equal("203.0.113.9"))

			req = request("10.0.0.2:4000", map[string]string{"X-Real-IP": "203.0.113.10"})
			Expect(rl.clientIP(req)).To(Equal("203.0.113.10"))
		})

		It("still ignores headers from peers outside the trusted range", func() {
			rl, err := NewRateLimiter(1, 1).TrustProxies([]string{"10.0.0.1"})
			Expect(err).NotTo(HaveOccurred())

			req := request("10.0.0.2:4000", map[string]string{"X-Forwarded-For": "203.0.113.9"})
			Expect(rl.clientIP(req)).To(Equal("10.0.0.2"))
		})

		It("rejects malformed proxy entries", func() {
			_, err := NewRateLimiter(1, 1).TrustProxies([]string{"not-an-ip"})
			Expect(err).To(MatchError(ContainSubstring("not-an-ip")))
		})
	})

	It("evicts idle visitors", func() {
		rl := NewRateLimiter(1, 1)
		rl.limiterFor("10.0.0.1")
		rl.evictIdle(time.Now().Add(10 * time.Minute))
		Expect(rl.visitors).To(BeEmpty())
	})
})

var _ = Describe("CORS", func() {
	It("answers preflight requests for allowed origins", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/goals", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()

		CORS([]string{"http://localhost:5173"})(ok).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:5173"))
		Expect(rec.Header().Get("Access-Control-Allow-Headers")).To(ContainSubstring("Authorization"))
	})

	It("does not echo unknown origins", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()

		CORS([]string{"http://localhost:5173"})(ok).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("renders a panic as an internal error without leaking it", func() {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("db exploded") })
		rec := httptest.NewRecorder()

		RecoveryMiddleware(logger)(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("db exploded"))
	})
})

var _ = Describe("RequestID", func() {
	It("propagates an incoming trace id", func() {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = TraceIDFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		Expect(seen).To(Equal("trace-123"))
		Expect(rec.Header().Get(TraceHeader)).To(Equal("trace-123"))
	})

	It("mints one when absent", func() {
		rec := httptest.NewRecorder()
		RequestID(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("masks credentials in logged bodies and headers", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"token":"jwt-value","user":{"email":"a@b.c"}}`))
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			bytes.NewBufferString(`{"email":"a@b.c","password":"hunter22"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer abc")

		LoggingMiddleware(logger)(echo).ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		Expect(out).NotTo(ContainSubstring("hunter22"))
		Expect(out).NotTo(ContainSubstring("jwt-value"))
		Expect(out).NotTo(ContainSubstring("Bearer abc"))
		Expect(out).To(ContainSubstring("a@b.c"))
	})

	It("leaves the request body readable downstream", func() {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		var got string
		read := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var b bytes.Buffer
			_, _ = b.ReadFrom(r.Body)
			got = b.String()
		})
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")

		LoggingMiddleware(logger)(read).ServeHTTP(httptest.NewRecorder(), req)

		Expect(got).To(Equal(`{"a":1}`))
	})
})

var _ = Describe("Metrics", func() {
	It("labels requests with the route pattern", func() {
		obs := &fakeObserver{}
		router := chi.NewRouter()
		router.Use(Metrics(obs))
		router.Get("/goals/{id}", ok)

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/goals/42", nil))

		Expect(obs.calls).To(ConsistOf(observed{http.MethodGet, "/goals/{id}", http.StatusOK}))
	})
})
