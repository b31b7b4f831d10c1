package main

import (
	"net/http"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/workpool/test/e2e/infra"
	"github.com/kubev2v/workpool/test/e2e/service"
)

var _ = Describe("workpool", Ordered, func() {
	var (
		svc       *service.WorkpoolSvc
		storePath string
	)

	BeforeAll(func() {
		storePath = filepath.Join(GinkgoT().TempDir(), "history.duckdb")
	})

	Context("serving", func() {
		BeforeEach(func() {
			addr, err := infraManager.StartWorkpool(infra.WorkpoolConfig{
				Address:       cfg.Address,
				Workers:       4,
				SleepDelay:    2 * time.Second,
				StaticsFolder: cfg.StaticsFolder,
				StorePath:     storePath,
			})
			Expect(err).NotTo(HaveOccurred())
			svc = service.NewWorkpoolService(addr)
		})

		AfterEach(func() {
			Expect(infraManager.StopWorkpool()).To(Succeed())
		})

		It("serves the index page", func() {
			resp, err := svc.Index()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(http.StatusOK))
			Expect(resp.Body).To(ContainSubstring("Hello!"))
			Expect(resp.RequestID).NotTo(BeEmpty())
		})

		It("answers unknown paths with the 404 page", func() {
			resp, err := svc.Get("/something-else")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(http.StatusNotFound))
			Expect(resp.Body).To(ContainSubstring("Oops!"))
		})

		It("keeps answering while one worker sleeps", func() {
			// Given a slow request holding one worker
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				resp, err := svc.Sleep()
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(http.StatusOK))
			}()
			time.Sleep(200 * time.Millisecond)

			// When the index is requested
			start := time.Now()
			resp, err := svc.Index()

			// Then another worker answers it right away
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(http.StatusOK))
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))

			wg.Wait()
		})

		It("exposes pool metrics", func() {
			_, err := svc.Index()
			Expect(err).NotTo(HaveOccurred())

			resp, err := svc.Metrics()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(http.StatusOK))
			Expect(resp.Body).To(ContainSubstring("workpool_jobs_completed_total"))
			Expect(resp.Body).To(ContainSubstring("workpool_workers_alive"))
		})

		It("records served requests in the history", func() {
			resp, err := svc.Get("/recorded")
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() ([]service.HistoryEntry, error) {
				return svc.History(10)
			}).WithTimeout(5 * time.Second).Should(ContainElement(And(
				HaveField("ID", resp.RequestID),
				HaveField("Path", "/recorded"),
				HaveField("Status", http.StatusNotFound),
			)))
		})
	})

	Context("max connections", func() {
		BeforeEach(func() {
			if cfg.InfraMode != "process" {
				Skip("needs a process the suite started")
			}
		})

		It("drains and exits after the configured number of connections", func() {
			addr, err := infraManager.StartWorkpool(infra.WorkpoolConfig{
				Address:        cfg.Address,
				Workers:        2,
				MaxConnections: 2,
				StaticsFolder:  cfg.StaticsFolder,
			})
			Expect(err).NotTo(HaveOccurred())
			svc = service.NewWorkpoolService(addr)

			// The readiness probe already used one connection.
			resp, err := svc.Index()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(http.StatusOK))

			Expect(infraManager.WaitWorkpool(10 * time.Second)).To(Succeed())
		})
	})
})
