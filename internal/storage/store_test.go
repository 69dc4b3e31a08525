package storage_test

import (
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/vec"
)

var _ = Describe("Store", func() {
	var (
		dir    string
		st     *storage.Store
		cfg    *config.Config
		result *sim.Result
		snaps  []sim.Snapshot
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "runs")
		st = storage.New(dir)
		Expect(st.Init()).To(Succeed())

		cfg = config.GetPreset("binary")
		result = &sim.Result{
			StepsTaken:  6,
			Time:        0.06,
			MinDt:       0.01,
			MaxDt:       0.01,
			EnergyDrift: 2.5e-7,
			Metrics:     map[string]float64{"bounded": 1},
		}
		snaps = []sim.Snapshot{
			{Step: 0, Time: 0, Positions: []vec.Vec2{vec.New(-0.5, 0), vec.New(0.5, 0)}},
			{Step: 3, Time: 0.03, Positions: []vec.Vec2{vec.New(-0.5, -0.0015), vec.New(0.5, 0.0015)}},
			{Step: 6, Time: 0.06, Positions: []vec.Vec2{vec.New(-0.49999, -0.003), vec.New(0.49999, 0.003)}},
		}
	})

	It("saves metadata and trajectory", func() {
		id, err := st.Save("binary", cfg, result, snaps)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(HavePrefix("binary_"))

		Expect(filepath.Join(dir, id, "metadata.json")).To(BeAnExistingFile())
		Expect(filepath.Join(dir, id, "trajectory.csv")).To(BeAnExistingFile())

		meta, err := st.Load(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Name).To(Equal("binary"))
		Expect(meta.Stepper).To(Equal("leapfrog"))
		Expect(meta.Bodies).To(Equal(2))
		Expect(meta.Steps).To(Equal(6))
		Expect(meta.EnergyDrift).To(BeEquivalentTo(2.5e-7))
		Expect(meta.Metrics).To(HaveKeyWithValue("bounded", export.Float(1)))
		Expect(meta.Result().MaxDt).To(Equal(0.01))
		Expect(meta.Config.Bodies).To(Equal(cfg.Bodies))
	})

	It("reads the trajectory back exactly", func() {
		id, err := st.Save("binary", cfg, result, snaps)
		Expect(err).NotTo(HaveOccurred())

		loaded, err := st.LoadTrajectory(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(snaps))
	})

	It("lists runs oldest first", func() {
		first, err := st.Save("a", cfg, result, snaps)
		Expect(err).NotTo(HaveOccurred())
		second, err := st.Save("b", cfg, result, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(os.MkdirAll(filepath.Join(dir, "junk"), 0755)).To(Succeed())

		runs, err := st.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(2))
		Expect(runs[0].ID).To(Equal(first))
		Expect(runs[1].ID).To(Equal(second))
	})

	It("returns an empty trajectory for a run without snapshots", func() {
		id, err := st.Save("empty", cfg, result, nil)
		Expect(err).NotTo(HaveOccurred())

		loaded, err := st.LoadTrajectory(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeEmpty())
	})

	It("saves and lists a run whose state blew up", func() {
		result.EnergyDrift = math.NaN()
		result.MaxDt = math.Inf(1)
		result.Metrics = map[string]float64{"energy_drift": math.NaN(), "bounded": 0.5}

		id, err := st.Save("collision", cfg, result, snaps)
		Expect(err).NotTo(HaveOccurred())

		meta, err := st.Load(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(float64(meta.EnergyDrift))).To(BeTrue())
		Expect(math.IsNaN(float64(meta.MaxDt))).To(BeTrue())
		Expect(math.IsNaN(meta.Result().Metrics["energy_drift"])).To(BeTrue())
		Expect(meta.Metrics).To(HaveKeyWithValue("bounded", export.Float(0.5)))
		Expect(meta.Steps).To(Equal(6))

		runs, err := st.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].ID).To(Equal(id))
	})

	It("removes the run directory when saving fails", func() {
		cfg.G = math.NaN()

		_, err := st.Save("broken", cfg, result, snaps)
		Expect(err).To(HaveOccurred())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("reports missing runs", func() {
		_, err := st.Load("nope")
		Expect(err).To(MatchError(storage.ErrRunNotFound))

		_, err = st.LoadTrajectory("nope")
		Expect(err).To(MatchError(storage.ErrRunNotFound))
	})

	It("lists nothing when the directory does not exist", func() {
		runs, err := storage.New(filepath.Join(dir, "missing")).List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})
})
