package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/format"
)

// run executes every stage in order. Each stage hands back a usable value
// even when it fails; failures only become warnings.
func (e *Engine) run(ctx context.Context, log *slog.Logger, raw, fileType string) Result {
	var res Result
	note := func(stage string, err error, degraded bool) {
		log.Warn("pipeline."+stage+".degraded", "err", err, "degraded", degraded)
		res.Warnings = append(res.Warnings, common.StageError(strings.ToUpper(stage), err).Error())
		res.Degraded = res.Degraded || degraded
	}

	f, err := format.DetectStrict(raw, fileType)
	if err != nil {
		note("detect", err, false)
	}
	res.Format = f
	log.Debug("pipeline.detect.ok", "format", f)

	rooms, err := e.extractors[f].Extract(raw)
	if err != nil {
		note("extract", err, true)
	}
	log.Debug("pipeline.extract.ok", "rooms", len(rooms))

	rooms, err = e.classifier.Filter(ctx, rooms)
	if err != nil {
		// With no remote classifier configured, rejecting ambiguous names is
		// the normal path rather than a degradation.
		note("classify", err, e.remote != nil)
	}
	log.Debug("pipeline.classify.ok", "rooms", len(rooms))

	rooms = e.dedup.Apply(rooms)
	log.Debug("pipeline.dedup.ok", "rooms", len(rooms))

	locs, err := e.transformer.Transform(rooms)
	if err != nil {
		note("transform", err, true)
	}

	for _, loc := range locs {
		for _, r := range loc.Rooms {
			if r.Provenance == nil || r.Provenance.Fallback {
				continue
			}
			if r.Provenance.Confidence < constants.ConfidenceMinReliable {
				res.Degraded = true
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s/%s: low source confidence %.2f", loc.Location, r.Name, r.Provenance.Confidence))
			}
			for _, w := range r.Provenance.Warnings {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s/%s: %s", loc.Location, r.Name, w))
			}
		}
	}

	res.Locations = locs
	return res
}
