package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/gemforge/cad-converter/internal/config"
	st "github.com/gemforge/cad-converter/internal/store"
	"github.com/gemforge/cad-converter/internal/store/model"
)

const (
	insertConversionStm        = "INSERT INTO conversions (id, status, current_step) VALUES ('%s', 'pending', 0);"
	insertConversionWithSvgStm = "INSERT INTO conversions (id, status, current_step, vectorized_svg_url) VALUES ('%s', 'pending', 0, '%s');"
	insertGemstoneSpecStm      = "INSERT INTO gemstone_specs (conversion_id, shape, size_mm, dia_wt, quantity, setting_type) VALUES ('%s', '%s', '%s', '%s', %d, '%s');"
	insertMetalSpecStm         = "INSERT INTO metal_specs (conversion_id, color, karat, gold_weight, tone) VALUES ('%s', '%s', %d, '%s', '%s');"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

var _ = Describe("conversion store", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := st.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = st.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM metal_specs;")
		gormdb.Exec("DELETE FROM gemstone_specs;")
		gormdb.Exec("DELETE FROM conversions;")
	})

	Context("get", func() {
		It("successfully retrieves a conversion", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertConversionWithSvgStm, "abc123", "https://x/vec.svg"))
			Expect(tx.Error).To(BeNil())

			conversion, err := s.Conversion().Get(context.TODO(), "abc123")
			Expect(err).To(BeNil())
			Expect(conversion.ID).To(Equal("abc123"))
			Expect(conversion.Status).To(Equal(model.ConversionStatusPending))
			Expect(conversion.VectorizedSVGURL).NotTo(BeNil())
			Expect(*conversion.VectorizedSVGURL).To(Equal("https://x/vec.svg"))
		})

		It("returns ErrRecordNotFound for an unknown id", func() {
			_, err := s.Conversion().Get(context.TODO(), "missing")
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("status transitions", func() {
		It("moves the conversion to generating_cad", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertConversionStm, "abc123"))
			Expect(tx.Error).To(BeNil())

			conversion, err := s.Conversion().UpdateStatus(context.TODO(), "abc123", model.ConversionStatusGeneratingCAD, st.StepGeneratingCAD)
			Expect(err).To(BeNil())
			Expect(conversion.Status).To(Equal(model.ConversionStatusGeneratingCAD))
			Expect(conversion.CurrentStep).To(Equal(st.StepGeneratingCAD))
		})

		It("completes the conversion with urls and timestamp in one write", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertConversionStm, "abc123"))
			Expect(tx.Error).To(BeNil())

			urls := model.ModelURLs{
				Step: "https://bucket/step/design_abc123.step",
				Stl:  "https://bucket/stl/design_abc123.stl",
				Obj:  "https://bucket/obj/design_abc123.obj",
			}
			completedAt := time.Now().UTC()

			conversion, err := s.Conversion().Complete(context.TODO(), "abc123", urls, completedAt)
			Expect(err).To(BeNil())
			Expect(conversion.Status).To(Equal(model.ConversionStatusCompleted))
			Expect(conversion.CurrentStep).To(Equal(st.StepCompleted))

			stored, err := s.Conversion().Get(context.TODO(), "abc123")
			Expect(err).To(BeNil())
			Expect(*stored.CadFileURL).To(Equal(urls.Step))
			Expect(*stored.StlFileURL).To(Equal(urls.Stl))
			Expect(*stored.ObjFileURL).To(Equal(urls.Obj))
			Expect(stored.CompletedAt).NotTo(BeNil())
		})

		It("marks the conversion failed and resets the progress marker", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertConversionStm, "abc123"))
			Expect(tx.Error).To(BeNil())
			_, err := s.Conversion().UpdateStatus(context.TODO(), "abc123", model.ConversionStatusGeneratingCAD, st.StepGeneratingCAD)
			Expect(err).To(BeNil())

			conversion, err := s.Conversion().Fail(context.TODO(), "abc123", "CAD service returned status 502: bad gateway")
			Expect(err).To(BeNil())
			Expect(conversion.Status).To(Equal(model.ConversionStatusFailed))
			Expect(conversion.CurrentStep).To(Equal(0))

			stored, err := s.Conversion().Get(context.TODO(), "abc123")
			Expect(err).To(BeNil())
			Expect(stored.ErrorMessage).NotTo(BeNil())
			Expect(*stored.ErrorMessage).To(ContainSubstring("502"))
		})

		It("returns ErrRecordNotFound when updating a missing conversion", func() {
			_, err := s.Conversion().UpdateStatus(context.TODO(), "missing", model.ConversionStatusGeneratingCAD, st.StepGeneratingCAD)
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("counts", func() {
		It("counts conversions grouped by status", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertConversionStm, "abc123"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertConversionStm, "def456"))
			Expect(tx.Error).To(BeNil())
			_, err := s.Conversion().Fail(context.TODO(), "def456", "boom")
			Expect(err).To(BeNil())

			counts, err := s.Conversion().CountByStatus(context.TODO())
			Expect(err).To(BeNil())
			Expect(counts[model.ConversionStatusPending]).To(Equal(int64(1)))
			Expect(counts[model.ConversionStatusFailed]).To(Equal(int64(1)))
		})

		It("returns an empty map on an empty table", func() {
			counts, err := s.Conversion().CountByStatus(context.TODO())
			Expect(err).To(BeNil())
			Expect(counts).To(BeEmpty())
		})
	})

	Context("gemstone specs", func() {
		It("lists all rows of a conversion", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertConversionStm, "abc123"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertGemstoneSpecStm, "abc123", "round", "1.5", "0.25", 4, "prong"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertGemstoneSpecStm, "abc123", "princess", "2.0", "0.5", 1, "bezel"))
			Expect(tx.Error).To(BeNil())

			specs, err := s.GemstoneSpec().List(context.TODO(), "abc123")
			Expect(err).To(BeNil())
			Expect(specs).To(HaveLen(2))
			Expect(specs[0].Shape).To(Equal("round"))
		})

		It("returns an empty list when the conversion has no stones", func() {
			specs, err := s.GemstoneSpec().List(context.TODO(), "abc123")
			Expect(err).To(BeNil())
			Expect(specs).To(BeEmpty())
		})
	})

	Context("metal specs", func() {
		It("retrieves the metal row of a conversion", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertMetalSpecStm, "abc123", "yellow", 18, "5.2", "warm"))
			Expect(tx.Error).To(BeNil())

			spec, err := s.MetalSpec().Get(context.TODO(), "abc123")
			Expect(err).To(BeNil())
			Expect(spec.Color).To(Equal("yellow"))
			Expect(spec.Karat).To(Equal(18))
			Expect(spec.GoldWeight).To(Equal("5.2"))
		})

		It("returns ErrRecordNotFound when the metal row is absent", func() {
			_, err := s.MetalSpec().Get(context.TODO(), "abc123")
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})
})
