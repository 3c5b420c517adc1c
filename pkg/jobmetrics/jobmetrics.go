package jobmetrics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"sort"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/menuscore/menuscore/pkg/atomicfile"
)

// Metric family names.
const (
	StageRows        = "menuscore_stage_rows"
	StageColumns     = "menuscore_stage_columns"
	StageDuration    = "menuscore_stage_duration_seconds"
	StageLastSuccess = "menuscore_stage_last_success_timestamp_seconds"
	ItemsByTier      = "menuscore_items_by_tier"
)

// Stage is the outcome of one successful pipeline stage.
type Stage struct {
	Name       string        `json:"name"`
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	Duration   time.Duration `json:"duration"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Report is the content of a job metrics textfile.
type Report struct {
	Stages map[string]Stage `json:"stages"`
	Tiers  map[string]int   `json:"tiers,omitempty"`
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{Stages: make(map[string]Stage)}
}

// Record merges st (and tiers, when non-nil) into the textfile at path,
// creating it if needed.
func Record(path string, st Stage, tiers map[string]int) error {
	rep, err := ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		rep = NewReport()
	}
	rep.Stages[st.Name] = st
	if tiers != nil {
		rep.Tiers = tiers
	}
	return rep.WriteFile(path)
}

// ReadFile parses the textfile at path. A missing file yields an error that
// satisfies errors.Is(err, fs.ErrNotExist).
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jobmetrics: read %q: %w", path, err)
	}
	rep, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("jobmetrics: %q: %w", path, err)
	}
	return rep, nil
}

// Parse decodes a Prometheus text exposition into a Report. Families other
// than the ones written by this package are ignored.
func Parse(r io.Reader) (*Report, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}

	rep := NewReport()
	stage := func(name string) Stage {
		st := rep.Stages[name]
		st.Name = name
		return st
	}
	for _, m := range mfs[StageRows].GetMetric() {
		st := stage(labelValue(m, "stage"))
		st.Rows = int(value(m))
		rep.Stages[st.Name] = st
	}
	for _, m := range mfs[StageColumns].GetMetric() {
		st := stage(labelValue(m, "stage"))
		st.Columns = int(value(m))
		rep.Stages[st.Name] = st
	}
	for _, m := range mfs[StageDuration].GetMetric() {
		st := stage(labelValue(m, "stage"))
		st.Duration = time.Duration(math.Round(value(m) * float64(time.Second)))
		rep.Stages[st.Name] = st
	}
	for _, m := range mfs[StageLastSuccess].GetMetric() {
		st := stage(labelValue(m, "stage"))
		sec, frac := math.Modf(value(m))
		st.FinishedAt = time.Unix(int64(sec), int64(frac*1e9)).UTC()
		rep.Stages[st.Name] = st
	}
	if mf := mfs[ItemsByTier]; mf != nil {
		rep.Tiers = make(map[string]int, len(mf.GetMetric()))
		for _, m := range mf.GetMetric() {
			rep.Tiers[labelValue(m, "tier")] = int(value(m))
		}
	}
	return rep, nil
}

// Families converts the report into metric families, stages and tiers sorted
// by name.
func (r *Report) Families() []*dto.MetricFamily {
	names := make([]string, 0, len(r.Stages))
	for name := range r.Stages {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := Gauge(StageRows, "Rows written by the last successful run of a pipeline stage.")
	cols := Gauge(StageColumns, "Columns written by the last successful run of a pipeline stage.")
	dur := Gauge(StageDuration, "Wall time of the last successful run of a pipeline stage.")
	last := Gauge(StageLastSuccess, "Unix time the pipeline stage last succeeded.")
	for _, name := range names {
		st := r.Stages[name]
		AddSample(rows, float64(st.Rows), "stage", name)
		AddSample(cols, float64(st.Columns), "stage", name)
		AddSample(dur, st.Duration.Seconds(), "stage", name)
		AddSample(last, float64(st.FinishedAt.UnixNano())/1e9, "stage", name)
	}
	out := []*dto.MetricFamily{rows, cols, dur, last}

	if len(r.Tiers) > 0 {
		tiers := make([]string, 0, len(r.Tiers))
		for tier := range r.Tiers {
			tiers = append(tiers, tier)
		}
		sort.Strings(tiers)
		mf := Gauge(ItemsByTier, "Scored menu items per health tier.")
		for _, tier := range tiers {
			AddSample(mf, float64(r.Tiers[tier]), "tier", tier)
		}
		out = append(out, mf)
	}
	return out
}

// WriteFile writes the report to path atomically.
func (r *Report) WriteFile(path string) error {
	err := atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return Encode(w, r.Families())
	})
	if err != nil {
		return fmt.Errorf("jobmetrics: write %q: %w", path, err)
	}
	return nil
}

// Gauge returns an empty gauge family.
func Gauge(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

// AddSample appends a gauge sample to mf. labels are name/value pairs.
func AddSample(mf *dto.MetricFamily, v float64, labels ...string) {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: proto.Float64(v)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{
			Name:  proto.String(labels[i]),
			Value: proto.String(labels[i+1]),
		})
	}
	mf.Metric = append(mf.Metric, m)
}

// Encode writes families in the text exposition format. Families without
// samples are skipped.
func Encode(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if len(mf.GetMetric()) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// value returns the sample of a counter, gauge or untyped metric.
func value(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
