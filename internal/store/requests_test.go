package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/workpool/internal/models"
	"github.com/kubev2v/workpool/internal/store"
	"github.com/kubev2v/workpool/internal/store/migrations"
	srvErrors "github.com/kubev2v/workpool/pkg/errors"
)

var _ = Describe("RequestStore", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		err = migrations.Run(ctx, db)
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
	})

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	newRequest := func(path string, status int, servedAt time.Time) models.Request {
		return models.Request{
			ID:       uuid.NewString(),
			Method:   "GET",
			Path:     path,
			Status:   status,
			Duration: 1500 * time.Microsecond,
			ServedAt: servedAt,
		}
	}

	Context("Get", func() {
		// Given an empty store
		// When we get a request by id
		// Then it should return ResourceNotFoundError
		It("should return ResourceNotFoundError for an unknown id", func() {
			_, err := s.Requests().Get(ctx, "missing")

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should return a recorded request", func() {
			// Arrange
			now := time.Now().UTC().Truncate(time.Millisecond)
			r := newRequest("/", 200, now)
			Expect(s.Requests().Record(ctx, r)).To(Succeed())

			// Act
			got, err := s.Requests().Get(ctx, r.ID)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(r.ID))
			Expect(got.Method).To(Equal("GET"))
			Expect(got.Path).To(Equal("/"))
			Expect(got.Status).To(Equal(200))
			Expect(got.Duration).To(Equal(1500 * time.Microsecond))
			Expect(got.ServedAt).To(BeTemporally("~", now, time.Millisecond))
		})
	})

	Context("Record", func() {
		It("should default ServedAt to now", func() {
			r := newRequest("/sleep", 200, time.Time{})
			Expect(s.Requests().Record(ctx, r)).To(Succeed())

			got, err := s.Requests().Get(ctx, r.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ServedAt).To(BeTemporally("~", time.Now(), 5*time.Second))
		})

		It("should reject a duplicate id", func() {
			r := newRequest("/", 200, time.Now())
			Expect(s.Requests().Record(ctx, r)).To(Succeed())
			Expect(s.Requests().Record(ctx, r)).NotTo(Succeed())
		})

		// Given many goroutines recording at once
		// When all writes complete
		// Then every request is stored
		It("should handle concurrent writes", func() {
			const numGoroutines = 20
			var wg sync.WaitGroup
			errs := make(chan error, numGoroutines)

			for i := range numGoroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := s.Requests().Record(ctx, newRequest("/", 200, time.Now())); err != nil {
						errs <- fmt.Errorf("goroutine %d: %w", i, err)
					}
				}()
			}
			wg.Wait()
			close(errs)

			var all []error
			for err := range errs {
				all = append(all, err)
			}
			Expect(all).To(BeEmpty())

			count, err := s.Requests().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(numGoroutines))
		})
	})

	Context("List", func() {
		var base time.Time

		BeforeEach(func() {
			base = time.Now().UTC().Truncate(time.Second)
			Expect(s.Requests().Record(ctx, newRequest("/", 200, base))).To(Succeed())
			Expect(s.Requests().Record(ctx, newRequest("/sleep", 200, base.Add(time.Second)))).To(Succeed())
			Expect(s.Requests().Record(ctx, newRequest("/missing", 404, base.Add(2*time.Second)))).To(Succeed())
		})

		It("should return the most recent request first", func() {
			requests, err := s.Requests().List(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(3))
			Expect(requests[0].Path).To(Equal("/missing"))
			Expect(requests[2].Path).To(Equal("/"))
		})

		It("should filter by status", func() {
			requests, err := s.Requests().List(ctx, store.ByStatus(404))

			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Status).To(Equal(404))
		})

		It("should filter by path", func() {
			requests, err := s.Requests().List(ctx, store.ByPath("/", "/sleep"))

			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(2))
		})

		It("should paginate", func() {
			requests, err := s.Requests().List(ctx, store.WithLimit(1), store.WithOffset(1))

			Expect(err).NotTo(HaveOccurred())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Path).To(Equal("/sleep"))
		})

		It("should return an empty slice when nothing matches", func() {
			requests, err := s.Requests().List(ctx, store.ByStatus(500))

			Expect(err).NotTo(HaveOccurred())
			Expect(requests).NotTo(BeNil())
			Expect(requests).To(BeEmpty())
		})

		It("should count with filters", func() {
			count, err := s.Requests().Count(ctx, store.ByStatus(200))

			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})
	})
})
