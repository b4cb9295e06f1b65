package report

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	deideval "github.com/jamesainslie/go-deideval"
	"github.com/jamesainslie/go-deideval/eval"
)

func metricsValue(m eval.Metrics, leak bool) map[string]any {
	v := map[string]any{
		"tp":        m.TruePositives,
		"fp":        m.FalsePositives,
		"fn":        m.FalseNegatives,
		"precision": m.Precision,
		"recall":    m.Recall,
		"f1":        m.F1,
	}
	if leak {
		v["gold"] = m.Gold
		v["leaked"] = m.Leaked
		v["leak"] = m.Leak
	}
	return v
}

func runValue(r *deideval.RunReport) map[string]any {
	micro := map[string]any{}
	for _, mode := range r.Modes {
		micro[string(mode)] = metricsValue(r.Micro[mode], mode == eval.ModeNER)
	}

	docs := make([]any, 0, len(r.Documents))
	for _, d := range r.Documents {
		scores := map[string]any{}
		for _, mode := range r.Modes {
			scores[string(mode)] = metricsValue(d.Metrics[mode], mode == eval.ModeNER)
		}
		docs = append(docs, map[string]any{
			"id":      d.DocumentID,
			"missing": d.Missing,
			"scores":  scores,
		})
	}

	problems := make([]any, 0, len(r.Problems()))
	for _, p := range r.Problems() {
		problems = append(problems, p.Error())
	}

	return map[string]any{
		"system":      r.SystemID,
		"subtrack":    string(r.Subtrack),
		"micro":       micro,
		"documents":   docs,
		"diagnostics": problems,
	}
}

// Marshal encodes reports as a JSON object with one entry per run, in order.
func Marshal(reports []*deideval.RunReport) ([]byte, error) {
	runs := make([]any, 0, len(reports))
	for _, r := range reports {
		runs = append(runs, runValue(r))
	}

	s, err := structpb.NewStruct(map[string]any{"runs": runs})
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}

// WriteJSONFile writes Marshal's output to path.
func WriteJSONFile(path string, reports []*deideval.RunReport) error {
	data, err := Marshal(reports)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
