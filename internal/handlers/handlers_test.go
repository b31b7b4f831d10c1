package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kubev2v/workpool/internal/config"
	"github.com/kubev2v/workpool/internal/handlers"
	"github.com/kubev2v/workpool/internal/models"
	"github.com/kubev2v/workpool/internal/store"
)

type fakeHistory struct {
	mu        sync.Mutex
	recorded  []models.Request
	listed    []models.Request
	listErr   error
	recordErr error
	lastOpts  int
}

func (f *fakeHistory) Record(_ context.Context, r models.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, r)
	return f.recordErr
}

func (f *fakeHistory) List(_ context.Context, opts ...store.ListOption) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = len(opts)
	// apply the options to a builder so malformed ones would surface
	b := sq.Select("id").From("requests")
	for _, opt := range opts {
		b = opt(b)
	}
	if _, _, err := b.ToSql(); err != nil {
		return nil, err
	}
	return f.listed, f.listErr
}

func (f *fakeHistory) Recorded() []models.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Request(nil), f.recorded...)
}

var _ = Describe("Handler", func() {
	var (
		router  *gin.Engine
		history *fakeHistory
		cfg     config.Server
	)

	do := func(method, target string, header ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		for i := 0; i+1 < len(header); i += 2 {
			req.Header.Set(header[i], header[i+1])
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "hello.html"), []byte("<h1>Hello!</h1>"), 0o600)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "404.html"), []byte("<h1>Oops!</h1>"), 0o600)).To(Succeed())

		cfg = config.NewConfigurationWithDefaults().Server
		cfg.StaticsFolder = dir
		cfg.SleepDelay = 50 * time.Millisecond

		history = &fakeHistory{}
		reg := prometheus.NewRegistry()
		reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter", Help: "test"}))

		router = gin.New()
		handlers.RegisterHandlers(router, handlers.New(cfg, history, reg))
	})

	Describe("GET /", func() {
		It("should serve hello.html", func() {
			rec := do(http.MethodGet, "/")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("<h1>Hello!</h1>"))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/html"))
		})

		It("should return 500 when the page is missing", func() {
			Expect(os.Remove(filepath.Join(cfg.StaticsFolder, "hello.html"))).To(Succeed())

			rec := do(http.MethodGet, "/")

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).To(ContainSubstring("hello.html"))
		})
	})

	Describe("GET /sleep", func() {
		It("should wait for the sleep delay before serving hello.html", func() {
			start := time.Now()
			rec := do(http.MethodGet, "/sleep")

			Expect(time.Since(start)).To(BeNumerically(">=", cfg.SleepDelay))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("<h1>Hello!</h1>"))
		})
	})

	Describe("unknown routes", func() {
		DescribeTable("should serve 404.html",
			func(method, target string) {
				rec := do(method, target)

				Expect(rec.Code).To(Equal(http.StatusNotFound))
				Expect(rec.Body.String()).To(Equal("<h1>Oops!</h1>"))
			},
			Entry("unknown path", http.MethodGet, "/something-else"),
			Entry("POST on index", http.MethodPost, "/"),
		)
	})

	Describe("GET /metrics", func() {
		It("should expose the registry", func() {
			rec := do(http.MethodGet, "/metrics")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("test_counter"))
		})
	})

	Describe("GET /history", func() {
		It("should list recorded requests", func() {
			servedAt := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
			history.listed = []models.Request{
				{ID: "a", Method: "GET", Path: "/", Status: 200, Duration: 1500 * time.Microsecond, ServedAt: servedAt},
			}

			rec := do(http.MethodGet, "/history?limit=5&status=200")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(history.lastOpts).To(Equal(2))

			var body struct {
				Requests []struct {
					ID         string    `json:"id"`
					Path       string    `json:"path"`
					Status     int       `json:"status"`
					DurationMs float64   `json:"durationMs"`
					ServedAt   time.Time `json:"servedAt"`
				} `json:"requests"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Requests).To(HaveLen(1))
			Expect(body.Requests[0].ID).To(Equal("a"))
			Expect(body.Requests[0].DurationMs).To(Equal(1.5))
			Expect(body.Requests[0].ServedAt).To(BeTemporally("==", servedAt))
		})

		It("should reject an invalid limit", func() {
			rec := do(http.MethodGet, "/history?limit=0x")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 500 when the store fails", func() {
			history.listErr = errors.New("db down")

			rec := do(http.MethodGet, "/history")

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("RecordRequest", func() {
		It("should record the request id, path and status", func() {
			do(http.MethodGet, "/missing", models.RequestIDHeader, "req-1")

			recorded := history.Recorded()
			Expect(recorded).To(HaveLen(1))
			Expect(recorded[0].ID).To(Equal("req-1"))
			Expect(recorded[0].Method).To(Equal(http.MethodGet))
			Expect(recorded[0].Path).To(Equal("/missing"))
			Expect(recorded[0].Status).To(Equal(http.StatusNotFound))
		})

		It("should generate an id when none is set", func() {
			do(http.MethodGet, "/")

			recorded := history.Recorded()
			Expect(recorded).To(HaveLen(1))
			Expect(recorded[0].ID).NotTo(BeEmpty())
		})

		It("should not change the response when recording fails", func() {
			history.recordErr = errors.New("db down")

			rec := do(http.MethodGet, "/")

			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("without history or metrics", func() {
		It("should serve pages and 404 for /history", func() {
			router = gin.New()
			handlers.RegisterHandlers(router, handlers.New(cfg, nil, nil))

			Expect(do(http.MethodGet, "/").Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/history").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodGet, "/metrics").Code).To(Equal(http.StatusNotFound))
		})
	})
})
