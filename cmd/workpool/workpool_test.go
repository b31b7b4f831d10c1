package main

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/workpool/internal/models"
	"github.com/kubev2v/workpool/internal/store"
	"github.com/kubev2v/workpool/internal/store/migrations"
)

var _ = Describe("workpool command", func() {
	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := newRootCommand()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	It("prints the version", func() {
		out, err := run("version")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(version + "\n"))
	})

	Context("configuration", func() {
		It("rejects a zero-sized pool before serving", func() {
			_, err := run("serve", "--workers", "0")
			Expect(err).To(MatchError(ContainSubstring("pool workers must be greater than zero")))
		})

		It("reads settings from WORKPOOL_ variables", func() {
			GinkgoT().Setenv("WORKPOOL_LOG_LEVEL", "loud")

			_, err := run("serve")
			Expect(err).To(MatchError(ContainSubstring("log level")))
		})
	})

	Context("history", func() {
		It("refuses the in-memory store", func() {
			_, err := run("history")
			Expect(err).To(MatchError(ContainSubstring("--store-path")))
		})

		It("prints recorded requests newest first", func() {
			// Given a store file holding two requests
			path := filepath.Join(GinkgoT().TempDir(), "history.duckdb")
			db, err := store.NewDB(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(migrations.Run(context.Background(), db)).To(Succeed())

			st := store.NewStore(db)
			now := time.Now()
			Expect(st.Requests().Record(context.Background(), models.Request{
				ID: "older", Method: "GET", Path: "/", Status: 200,
				Duration: time.Millisecond, ServedAt: now.Add(-time.Minute),
			})).To(Succeed())
			Expect(st.Requests().Record(context.Background(), models.Request{
				ID: "newer", Method: "GET", Path: "/missing", Status: 404,
				Duration: time.Millisecond, ServedAt: now,
			})).To(Succeed())
			Expect(st.Close()).To(Succeed())

			// When
			out, err := run("history", "--store-path", path)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("STATUS"))
			Expect(out).To(MatchRegexp(`(?s)404.*/missing.*newer.*200.*older`))
		})

		It("filters by status", func() {
			path := filepath.Join(GinkgoT().TempDir(), "history.duckdb")
			db, err := store.NewDB(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(migrations.Run(context.Background(), db)).To(Succeed())
			st := store.NewStore(db)
			Expect(st.Requests().Record(context.Background(), models.Request{ID: "accepted", Method: "GET", Path: "/", Status: 200})).To(Succeed())
			Expect(st.Requests().Record(context.Background(), models.Request{ID: "gone", Method: "GET", Path: "/x", Status: 404})).To(Succeed())
			Expect(st.Close()).To(Succeed())

			out, err := run("history", "--store-path", path, "--status", "404")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("gone"))
			Expect(out).NotTo(ContainSubstring("accepted"))
		})
	})

	It("says so when nothing was recorded", func() {
		var out bytes.Buffer
		Expect(printHistory(&out, nil)).To(Succeed())
		Expect(out.String()).To(Equal("no requests recorded\n"))
	})
})
