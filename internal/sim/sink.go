package sim

// Recorder keeps every snapshot in memory.
type Recorder struct {
	Snapshots []Snapshot
}

func NewRecorder() *Recorder {
	return &Recorder{Snapshots: make([]Snapshot, 0)}
}

func (r *Recorder) Write(s Snapshot) error {
	r.Snapshots = append(r.Snapshots, s)
	return nil
}

// Times returns the time of every recorded snapshot.
func (r *Recorder) Times() []float64 {
	ts := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		ts[i] = s.Time
	}
	return ts
}

// Tee writes every snapshot to each sink in order, stopping at the first
// error.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(s Snapshot) error {
		for _, sk := range sinks {
			if sk == nil {
				continue
			}
			if err := sk.Write(s); err != nil {
				return err
			}
		}
		return nil
	})
}
