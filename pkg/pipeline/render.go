package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/poatree/pkg/report"
)

// Render writes rep in a single format.
func Render(ctx context.Context, rep *report.Report, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := report.Write(ctx, &buf, rep, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderAll renders rep in every format, keyed by format name.
func RenderAll(ctx context.Context, rep *report.Report, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, err := Render(ctx, rep, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
