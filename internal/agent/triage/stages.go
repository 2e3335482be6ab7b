// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package triage

import (
	"context"
	"strings"

	"iiot-responder/internal/agent/planner"
	"iiot-responder/internal/anomaly"
	"iiot-responder/pkg/metrics"
)

// 阶段名，按执行顺序
const (
	StagePlan            = "plan"
	StageCollectEvidence = "collect_evidence"
	StageDecide          = "decide"
	StageMaybeGatherMore = "maybe_gather_more"
	StageWriteReport     = "write_report"
	StageMaybeTicket     = "maybe_ticket"
)

// StageNames 固定的阶段顺序
var StageNames = []string{
	StagePlan, StageCollectEvidence, StageDecide,
	StageMaybeGatherMore, StageWriteReport, StageMaybeTicket,
}

type stageFunc func(ctx context.Context, run *Run) error

func (p *Pipeline) stages() map[string]stageFunc {
	return map[string]stageFunc{
		StagePlan:            p.plan,
		StageCollectEvidence: p.collectEvidence,
		StageDecide:          p.decide,
		StageMaybeGatherMore: p.maybeGatherMore,
		StageWriteReport:     p.writeReport,
		StageMaybeTicket:     p.maybeTicket,
	}
}

func (p *Pipeline) plan(ctx context.Context, run *Run) error {
	plan, err := p.planner.Resolve(ctx, run.State.Description())
	if err != nil {
		run.PlanError = err
		run.Trace.Log("plan:error", "msg", err.Error())
	}
	if plan == nil {
		plan = planner.StaticPlan()
	}
	run.Plan = plan
	run.Trace.Log("plan", "plan", plan)
	return nil
}

func (p *Pipeline) collectEvidence(ctx context.Context, run *Run) error {
	scenario := run.State.Scenario()

	ts, err := p.source.GetTimeSeries(ctx, SensorID, TimeSeriesWindow, scenario)
	if err != nil {
		return err
	}
	run.Trace.Log("tool:get_timeseries", "n", len(ts.Points))

	anom := anomaly.Score(ts.Points)
	run.Trace.Log("tool:anomaly_score", "score", anom.Score)

	hits, err := p.source.SearchLogs(ctx, PrimaryLogQuery, scenario)
	if err != nil {
		return err
	}
	run.Trace.Log("tool:search_logs", "hits", len(hits))

	msgs := make([]string, 0, RetrievalContextLogs)
	for i := 0; i < len(hits) && i < RetrievalContextLogs; i++ {
		msgs = append(msgs, hits[i].Msg())
	}
	ragQuery := strings.TrimSpace(run.State.Description() + " " + strings.Join(msgs, " "))

	notes := p.knowledge.Query(ragQuery, RetrievalTopK)
	metrics.RetrievalHits.Observe(float64(len(notes)))
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	run.Trace.Log("tool:kb_query", "notes", ids)

	if len(hits) > EvidenceLogLimit {
		hits = hits[:EvidenceLogLimit]
	}
	run.State.SetEvidence(anom.Score, hits, notes)
	return nil
}

func (p *Pipeline) decide(ctx context.Context, run *Run) error {
	ev := run.State.Evidence()
	sources := ev.Sources()
	conf := ComputeConfidence(ev.AnomalyScore, sources)
	if err := run.State.SetConfidence(conf); err != nil {
		return err
	}
	metrics.Confidence.Observe(conf)
	run.Trace.Log("decide", "sources", sources, "confidence", conf)
	return nil
}

func (p *Pipeline) maybeGatherMore(ctx context.Context, run *Run) error {
	if run.State.Confidence() >= ConfidenceThreshold {
		run.Trace.Log("branch:skip_more_evidence", "confidence", run.State.Confidence())
		return nil
	}
	hits, err := p.source.SearchLogs(ctx, FollowupLogQuery, run.State.Scenario())
	if err != nil {
		return err
	}
	added := run.State.AppendLogs(hits, GatherMoreLogCap)
	run.Trace.Log("branch:more_evidence", "added", added)
	return nil
}

func (p *Pipeline) writeReport(ctx context.Context, run *Run) error {
	ev := run.State.Evidence()
	sources := ev.Sources()
	conf := run.State.Confidence()

	verdict := RecommendHuman
	allowed := RemediationAllowed(conf, sources)
	if allowed {
		verdict = RecommendRemediation
	}
	run.Trace.Log("guardrails", "ticket_allowed", allowed)

	if run.Plan != nil {
		met, err := planner.EvaluateStopCondition(run.Plan.StopCondition, conf, sources)
		if err != nil {
			run.Trace.Log("plan:stop_condition", "error", err.Error())
		} else {
			run.Trace.Log("plan:stop_condition", "met", met)
		}
	}

	md, err := RenderReport(run.State.Scenario(), run.State.Description(), conf, ev, verdict, run.Trace.Markdown())
	if err != nil {
		return err
	}
	if err := run.State.SetReport(md); err != nil {
		return err
	}
	run.Trace.Log("write", "chars", len([]rune(md)))
	return nil
}

func (p *Pipeline) maybeTicket(ctx context.Context, run *Run) error {
	ev := run.State.Evidence()
	if !TicketAllowed(run.State.Confidence(), len(ev.Logs), len(ev.KB)) {
		metrics.TicketTotal.WithLabelValues("skipped").Inc()
		run.Trace.Log("ticket", "skipped", true)
		return nil
	}
	loc, err := p.sink.Store(ctx, run.State.ReportMD())
	if err != nil {
		metrics.TicketTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.TicketTotal.WithLabelValues("created").Inc()
	run.TicketLocation = loc
	run.Trace.Log("ticket", "path", loc)
	return nil
}
