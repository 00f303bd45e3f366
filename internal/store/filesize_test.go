package store_test

import (
	"context"
	"database/sql"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quarrydb/janitor/internal/store"
	"github.com/quarrydb/janitor/internal/store/migrations"
	srvErrors "github.com/quarrydb/janitor/pkg/errors"
)

var _ = Describe("FileSizeStore", func() {
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
		if db != nil {
			db.Close()
		}
	})

	Context("Get", func() {
		It("should return FileNotTrackedError for an unknown path", func() {
			_, err := s.FileSize().Get(ctx, "/data/parts/missing.bin")
			Expect(err).To(HaveOccurred())

			var notTracked *srvErrors.FileNotTrackedError
			Expect(err).To(BeAssignableToTypeOf(notTracked))
		})

		It("should return the stored record", func() {
			err := s.FileSize().Upsert(ctx, "/data/parts/0001.bin", 4096)
			Expect(err).NotTo(HaveOccurred())

			rec, err := s.FileSize().Get(ctx, "/data/parts/0001.bin")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Path).To(Equal("/data/parts/0001.bin"))
			Expect(rec.Size).To(Equal(int64(4096)))
		})
	})

	Context("Upsert", func() {
		It("should update the size of an existing record", func() {
			Expect(s.FileSize().Upsert(ctx, "/data/parts/0001.bin", 4096)).To(Succeed())
			Expect(s.FileSize().Upsert(ctx, "/data/parts/0001.bin", 8192)).To(Succeed())

			rec, err := s.FileSize().Get(ctx, "/data/parts/0001.bin")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Size).To(Equal(int64(8192)))

			count, err := s.FileSize().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})
	})

	Context("Delete", func() {
		It("should drop a record", func() {
			Expect(s.FileSize().Upsert(ctx, "/data/parts/0001.bin", 4096)).To(Succeed())
			Expect(s.FileSize().Delete(ctx, "/data/parts/0001.bin")).To(Succeed())

			_, err := s.FileSize().Get(ctx, "/data/parts/0001.bin")
			Expect(err).To(HaveOccurred())
		})

		It("should not fail on an untracked path", func() {
			Expect(s.FileSize().Delete(ctx, "/data/parts/never.bin")).To(Succeed())
		})
	})

	Context("List", func() {
		BeforeEach(func() {
			for i := 0; i < 5; i++ {
				path := fmt.Sprintf("/data/parts/%04d.bin", i)
				Expect(s.FileSize().Upsert(ctx, path, int64(1024*i))).To(Succeed())
			}
			Expect(s.FileSize().Upsert(ctx, "/data/wal/0001.log", 512)).To(Succeed())
		})

		It("should return records ordered by path", func() {
			records, err := s.FileSize().List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(6))
			Expect(records[0].Path).To(Equal("/data/parts/0000.bin"))
		})

		It("should filter by path prefix", func() {
			records, err := s.FileSize().List(ctx, store.WithPathPrefix("/data/wal/"))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Path).To(Equal("/data/wal/0001.log"))
		})

		It("should paginate", func() {
			records, err := s.FileSize().List(ctx, store.WithLimit(2), store.WithOffset(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Path).To(Equal("/data/parts/0002.bin"))
		})

		It("should count with the same filters", func() {
			count, err := s.FileSize().Count(ctx, store.WithPathPrefix("/data/parts/"))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(5))
		})
	})
})
